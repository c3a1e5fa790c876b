package config

// Configer is the lookup interface the rest of pandata uses for settings.
// Keys are flat strings such as PANDATA_OBSERVATIONS_URL; every getter has
// a WithDefault form so callers can carry the archive defaults without
// requiring a config file.
type Configer interface {
	LoadFromPath(path string) error
	Load() error
	GetKey(key string) string
	GetKeyWithDefault(key, defaultValue string) string
	GetIntKeyWithDefault(key string, defaultValue int) int
	GetBoolKeyWithDefault(key string, defaultValue bool) bool
}
