package utils

const (
	KilometersPerNauticalMile = 1.852
	NauticalMilesPerKilometer = 1 / KilometersPerNauticalMile
)
