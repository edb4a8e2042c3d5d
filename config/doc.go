// Package config handles application configuration loading and validation.
//
// Configuration is loaded from a YAML file and validated using struct
// tags. Dataset settings describe the recording set being converted;
// export settings control the generated documents.
package config
