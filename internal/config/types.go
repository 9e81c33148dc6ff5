package config

// Stop is a stop chosen during setup.
type Stop struct {
	ID   string `yaml:"id" validate:"required"`
	Name string `yaml:"name" validate:"required"`
}

// AppConfig is the persisted configuration file.
type AppConfig struct {
	// DataFileURL is the path or URL the feed was retrieved from.
	DataFileURL string `yaml:"data_file_url" validate:"required"`
	// DataFilePath is the local copy of the feed inside the config directory.
	DataFilePath string `yaml:"data_file_path" validate:"required"`
	// UnknownTimes places departures without an arrival time first or last.
	UnknownTimes string `yaml:"unknown_times,omitempty" validate:"omitempty,oneof=first last"`
	Stops        []Stop `yaml:"stops" validate:"required,min=1,dive"`
}

// StopIDs returns the ids of the configured stops in order.
func (c *AppConfig) StopIDs() []string {
	ids := make([]string, 0, len(c.Stops))
	for _, s := range c.Stops {
		ids = append(ids, s.ID)
	}
	return ids
}
