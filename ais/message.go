package ais

import (
	"fmt"
	"math"
	"time"
)

// NavStatus is the navigational status from position report A.
type NavStatus int

const (
	StatusUnderwayEngine NavStatus = 0
	StatusAnchor         NavStatus = 1
	StatusNotCommand     NavStatus = 2
	StatusRestrictManv   NavStatus = 3
	StatusConstrainDraft NavStatus = 4
	StatusMoored         NavStatus = 5
	StatusAground        NavStatus = 6
	StatusFishing        NavStatus = 7
	StatusUnderwaySail   NavStatus = 8
	StatusAISSART        NavStatus = 14
	StatusUndefined      NavStatus = 15
)

// Maneuver is the special maneuver indicator from position report A.
type Maneuver int

const (
	ManeuverNA        Maneuver = 0
	ManeuverNoSpecial Maneuver = 1
	ManeuverSpecial   Maneuver = 2
)

// Field values the standard uses to mean "not available".
const (
	lonNotAvailable     = 181.0
	latNotAvailable     = 91.0
	headingNotAvailable = 511
	speedNotAvailable   = 102.3
)

// RadioStatus is the 19-bit communication state word from position
// reports, decoded per ITU-R M.1371 3.3.7.2.3. Which submessage field is
// meaningful depends on SlotTimeout; UTCHour/UTCMinute are -1 when the
// word does not carry them.
type RadioStatus struct {
	SyncState   int
	SlotTimeout int
	NStations   int
	SlotNumber  int
	SlotOffset  int
	UTCHour     int
	UTCMinute   int
}

func decodeRadio(v uint64) RadioStatus {
	rs := RadioStatus{UTCHour: -1, UTCMinute: -1}
	rs.SyncState = int(v >> 17 & 0x3)
	rs.SlotTimeout = int(v >> 14 & 0x7)
	switch rs.SlotTimeout {
	case 3, 5, 7:
		rs.NStations = int(v & 0x3fff)
	case 2, 4, 6:
		rs.SlotNumber = int(v & 0x3fff)
	case 1:
		rs.UTCHour = int(v >> 9 & 0x1f)
		rs.UTCMinute = int(v >> 2 & 0x7f)
	case 0:
		rs.SlotOffset = int(v & 0x3fff)
	}
	return rs
}

// Header is common to every AIS message.
type Header struct {
	MsgType int
	Repeat  int
	MMSI    uint32
}

// MessageHeader returns the common header fields.
func (h Header) MessageHeader() Header { return h }

// Message is one decoded AIS message, a tagged variant per message type.
type Message interface {
	MessageHeader() Header
}

// PositionReport is message type 1, 2, or 3 (class A position report).
type PositionReport struct {
	Header
	Status        NavStatus
	TurnDegPerMin float64
	SpeedKt       float64
	Accuracy      bool
	Lon           float64
	Lat           float64
	CourseDeg     float64
	HeadingDeg    int
	Second        int
	Maneuver      Maneuver
	RAIM          bool
	Radio         RadioStatus
}

// BaseStationReport is message type 4. Time is zero when the broadcast
// date fields are unusable.
type BaseStationReport struct {
	Header
	Time     time.Time
	Accuracy bool
	Lon      float64
	Lat      float64
	EPFD     int
	RAIM     bool
	Radio    RadioStatus
}

// StaticVoyage is message type 5 (class A static and voyage data).
type StaticVoyage struct {
	Header
	AISVersion  int
	IMO         uint32
	Callsign    string
	Shipname    string
	ShipType    int
	ToBow       int
	ToStern     int
	ToPort      int
	ToStbd      int
	EPFD        int
	ETAMonth    int
	ETADay      int
	ETAHour     int
	ETAMinute   int
	DraftM      float64
	Destination string
	DTE         bool
}

// PositionReportB is message type 18 (class B position report).
type PositionReportB struct {
	Header
	SpeedKt    float64
	Accuracy   bool
	Lon        float64
	Lat        float64
	CourseDeg  float64
	HeadingDeg int
	Second     int
}

// AidToNavigation is message type 21.
type AidToNavigation struct {
	Header
	AidType  int
	Name     string
	Accuracy bool
	Lon      float64
	Lat      float64
	ToBow    int
	ToStern  int
	ToPort   int
	ToStbd   int
}

// StaticDataA is message type 24 part A.
type StaticDataA struct {
	Header
	Shipname string
}

// StaticDataB is message type 24 part B.
type StaticDataB struct {
	Header
	ShipType int
	VendorID string
	Model    int
	Serial   uint32
	Callsign string
	ToBow    int
	ToStern  int
	ToPort   int
	ToStbd   int
}

// DecodePayload de-armors and decodes one reassembled payload. pad is
// the fill-bit count from the sentence. Fields that run off the end of a
// short payload are left at their "not available" defaults; a payload
// too short to carry the header is malformed.
func DecodePayload(armored string, pad int) (Message, error) {
	bits, err := dearmor(armored, pad)
	if err != nil {
		return nil, err
	}
	mt, ok := bits.uint(0, 6)
	if !ok {
		return nil, fmt.Errorf("%w: payload shorter than message type field", ErrMalformedRecord)
	}
	mmsi, ok := bits.uint(8, 30)
	if !ok {
		return nil, fmt.Errorf("%w: type %d payload has no MMSI", ErrMalformedRecord, mt)
	}
	hdr := Header{MsgType: int(mt), MMSI: uint32(mmsi)}
	if r, ok := bits.uint(6, 2); ok {
		hdr.Repeat = int(r)
	}
	switch mt {
	case 1, 2, 3:
		return decodePositionReport(hdr, bits), nil
	case 4:
		return decodeBaseStation(hdr, bits), nil
	case 5:
		return decodeStaticVoyage(hdr, bits), nil
	case 18:
		return decodePositionReportB(hdr, bits), nil
	case 21:
		return decodeAidToNavigation(hdr, bits), nil
	case 24:
		part, ok := bits.uint(38, 2)
		if !ok {
			return nil, fmt.Errorf("%w: type 24 payload has no part number", ErrMalformedRecord)
		}
		if part == 0 {
			return decodeStaticDataA(hdr, bits), nil
		}
		return decodeStaticDataB(hdr, bits), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedMessage, mt)
	}
}

func decodePositionReport(hdr Header, bits payloadBits) *PositionReport {
	m := &PositionReport{
		Header:        hdr,
		Status:        StatusUndefined,
		TurnDegPerMin: math.NaN(),
		SpeedKt:       speedNotAvailable,
		Lon:           lonNotAvailable,
		Lat:           latNotAvailable,
		CourseDeg:     360,
		HeadingDeg:    headingNotAvailable,
		Second:        60,
	}
	if v, ok := bits.uint(38, 4); ok {
		m.Status = NavStatus(v)
	}
	if v, ok := bits.int(42, 8); ok {
		m.TurnDegPerMin = scaleTurn(v)
	}
	if v, ok := bits.tenth(50, 10); ok {
		m.SpeedKt = v
	}
	if v, ok := bits.flag(60); ok {
		m.Accuracy = v
	}
	if v, ok := bits.latlon(61, 28); ok {
		m.Lon = v
	}
	if v, ok := bits.latlon(89, 27); ok {
		m.Lat = v
	}
	if v, ok := bits.tenth(116, 12); ok {
		m.CourseDeg = v
	}
	if v, ok := bits.uint(128, 9); ok {
		m.HeadingDeg = int(v)
	}
	if v, ok := bits.uint(137, 6); ok {
		m.Second = int(v)
	}
	if v, ok := bits.uint(143, 2); ok {
		m.Maneuver = Maneuver(v)
	}
	if v, ok := bits.flag(148); ok {
		m.RAIM = v
	}
	if v, ok := bits.uint(149, 19); ok {
		m.Radio = decodeRadio(v)
	} else {
		m.Radio = RadioStatus{UTCHour: -1, UTCMinute: -1}
	}
	return m
}

func decodeBaseStation(hdr Header, bits payloadBits) *BaseStationReport {
	m := &BaseStationReport{
		Header: hdr,
		Lon:    lonNotAvailable,
		Lat:    latNotAvailable,
		Radio:  RadioStatus{UTCHour: -1, UTCMinute: -1},
	}
	year, okY := bits.uint(38, 14)
	month, okM := bits.uint(52, 4)
	day, okD := bits.uint(56, 5)
	hour, okH := bits.uint(61, 5)
	minute, okN := bits.uint(66, 6)
	second, okS := bits.uint(72, 6)
	if okY && okM && okD && okH && okN && okS &&
		year > 0 && month >= 1 && month <= 12 && day >= 1 && day <= 31 &&
		hour < 24 && minute < 60 && second < 60 {
		m.Time = time.Date(int(year), time.Month(month), int(day),
			int(hour), int(minute), int(second), 0, time.UTC)
	}
	if v, ok := bits.flag(78); ok {
		m.Accuracy = v
	}
	if v, ok := bits.latlon(79, 28); ok {
		m.Lon = v
	}
	if v, ok := bits.latlon(107, 27); ok {
		m.Lat = v
	}
	if v, ok := bits.uint(134, 4); ok {
		m.EPFD = int(v)
	}
	if v, ok := bits.flag(148); ok {
		m.RAIM = v
	}
	if v, ok := bits.uint(149, 19); ok {
		m.Radio = decodeRadio(v)
	}
	return m
}

func decodeStaticVoyage(hdr Header, bits payloadBits) *StaticVoyage {
	m := &StaticVoyage{Header: hdr}
	if v, ok := bits.uint(38, 2); ok {
		m.AISVersion = int(v)
	}
	if v, ok := bits.uint(40, 30); ok {
		m.IMO = uint32(v)
	}
	if v, ok := bits.text(70, 42); ok {
		m.Callsign = v
	}
	if v, ok := bits.text(112, 120); ok {
		m.Shipname = v
	}
	if v, ok := bits.uint(232, 8); ok {
		m.ShipType = int(v)
	}
	if v, ok := bits.uint(240, 9); ok {
		m.ToBow = int(v)
	}
	if v, ok := bits.uint(249, 9); ok {
		m.ToStern = int(v)
	}
	if v, ok := bits.uint(258, 6); ok {
		m.ToPort = int(v)
	}
	if v, ok := bits.uint(264, 6); ok {
		m.ToStbd = int(v)
	}
	if v, ok := bits.uint(270, 4); ok {
		m.EPFD = int(v)
	}
	if v, ok := bits.uint(274, 4); ok {
		m.ETAMonth = int(v)
	}
	if v, ok := bits.uint(278, 5); ok {
		m.ETADay = int(v)
	}
	if v, ok := bits.uint(283, 5); ok {
		m.ETAHour = int(v)
	}
	if v, ok := bits.uint(288, 6); ok {
		m.ETAMinute = int(v)
	}
	if v, ok := bits.tenth(294, 8); ok {
		m.DraftM = v
	}
	if v, ok := bits.text(302, 120); ok {
		m.Destination = v
	}
	if v, ok := bits.flag(422); ok {
		m.DTE = v
	}
	return m
}

func decodePositionReportB(hdr Header, bits payloadBits) *PositionReportB {
	m := &PositionReportB{
		Header:     hdr,
		SpeedKt:    speedNotAvailable,
		Lon:        lonNotAvailable,
		Lat:        latNotAvailable,
		CourseDeg:  360,
		HeadingDeg: headingNotAvailable,
		Second:     60,
	}
	if v, ok := bits.tenth(46, 10); ok {
		m.SpeedKt = v
	}
	if v, ok := bits.flag(56); ok {
		m.Accuracy = v
	}
	if v, ok := bits.latlon(57, 28); ok {
		m.Lon = v
	}
	if v, ok := bits.latlon(85, 27); ok {
		m.Lat = v
	}
	if v, ok := bits.tenth(112, 12); ok {
		m.CourseDeg = v
	}
	if v, ok := bits.uint(124, 9); ok {
		m.HeadingDeg = int(v)
	}
	if v, ok := bits.uint(133, 6); ok {
		m.Second = int(v)
	}
	return m
}

func decodeAidToNavigation(hdr Header, bits payloadBits) *AidToNavigation {
	m := &AidToNavigation{
		Header: hdr,
		Lon:    lonNotAvailable,
		Lat:    latNotAvailable,
	}
	if v, ok := bits.uint(38, 5); ok {
		m.AidType = int(v)
	}
	if v, ok := bits.text(43, 120); ok {
		m.Name = v
	}
	if v, ok := bits.flag(163); ok {
		m.Accuracy = v
	}
	if v, ok := bits.latlon(164, 28); ok {
		m.Lon = v
	}
	if v, ok := bits.latlon(192, 27); ok {
		m.Lat = v
	}
	if v, ok := bits.uint(219, 9); ok {
		m.ToBow = int(v)
	}
	if v, ok := bits.uint(228, 9); ok {
		m.ToStern = int(v)
	}
	if v, ok := bits.uint(237, 6); ok {
		m.ToPort = int(v)
	}
	if v, ok := bits.uint(243, 6); ok {
		m.ToStbd = int(v)
	}
	return m
}

func decodeStaticDataA(hdr Header, bits payloadBits) *StaticDataA {
	m := &StaticDataA{Header: hdr}
	if v, ok := bits.text(40, 120); ok {
		m.Shipname = v
	}
	return m
}

func decodeStaticDataB(hdr Header, bits payloadBits) *StaticDataB {
	m := &StaticDataB{Header: hdr}
	if v, ok := bits.uint(40, 8); ok {
		m.ShipType = int(v)
	}
	if v, ok := bits.text(48, 18); ok {
		m.VendorID = v
	}
	if v, ok := bits.uint(66, 4); ok {
		m.Model = int(v)
	}
	if v, ok := bits.uint(70, 20); ok {
		m.Serial = uint32(v)
	}
	if v, ok := bits.text(90, 42); ok {
		m.Callsign = v
	}
	if v, ok := bits.uint(132, 9); ok {
		m.ToBow = int(v)
	}
	if v, ok := bits.uint(141, 9); ok {
		m.ToStern = int(v)
	}
	if v, ok := bits.uint(150, 6); ok {
		m.ToPort = int(v)
	}
	if v, ok := bits.uint(156, 6); ok {
		m.ToStbd = int(v)
	}
	return m
}
