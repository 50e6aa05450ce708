package excel

// ReaderConfig holds configuration for a sample sheet source
type ReaderConfig struct {
	FilePath string `json:"file_path"`
	Sheet    string `json:"sheet"`
	// Missing is stored for empty x and y cells, InvalidSize for empty size cells
	Missing     float64 `json:"missing"`
	InvalidSize float64 `json:"invalid_size"`
	// ZeroBase shifts each trial's clock so its first sample is at time 0
	ZeroBase bool `json:"zero_base"`
}

// DefaultReaderConfig returns sensible defaults for sample sheets
func DefaultReaderConfig(filePath string) ReaderConfig {
	return ReaderConfig{
		FilePath:    filePath,
		Sheet:       "Sheet1",
		Missing:     0,
		InvalidSize: -1,
		ZeroBase:    true,
	}
}
