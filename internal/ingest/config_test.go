package ingest

import (
	"errors"
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "valid default config",
			config:  DefaultConfig("wss://stream.louper.app/engagement"),
			wantErr: nil,
		},
		{
			name: "valid custom config",
			config: Config{
				URL:          "wss://stream.louper.app/engagement",
				BaseDelay:    50 * time.Millisecond,
				MaxDelay:     time.Second,
				JitterFactor: 0.25,
			},
			wantErr: nil,
		},
		{
			name: "empty URL",
			config: Config{
				BaseDelay:    100,
				MaxDelay:     200,
				JitterFactor: 0.5,
			},
			wantErr: ErrEmptyURL,
		},
		{
			name: "zero base delay",
			config: Config{
				URL:          "wss://test.example.com",
				MaxDelay:     200,
				JitterFactor: 0.5,
			},
			wantErr: ErrInvalidDelay,
		},
		{
			name: "max delay less than base delay",
			config: Config{
				URL:          "wss://test.example.com",
				BaseDelay:    200,
				MaxDelay:     100,
				JitterFactor: 0.5,
			},
			wantErr: ErrInvalidMaxDelay,
		},
		{
			name: "jitter factor above one",
			config: Config{
				URL:          "wss://test.example.com",
				BaseDelay:    100,
				MaxDelay:     200,
				JitterFactor: 1.5,
			},
			wantErr: ErrInvalidJitter,
		},
		{
			name: "negative jitter factor",
			config: Config{
				URL:          "wss://test.example.com",
				BaseDelay:    100,
				MaxDelay:     200,
				JitterFactor: -0.1,
			},
			wantErr: ErrInvalidJitter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("wss://stream.louper.app/engagement")
	if cfg.BaseDelay != DefaultBaseDelay {
		t.Errorf("BaseDelay = %v, want %v", cfg.BaseDelay, DefaultBaseDelay)
	}
	if cfg.MaxDelay != DefaultMaxDelay {
		t.Errorf("MaxDelay = %v, want %v", cfg.MaxDelay, DefaultMaxDelay)
	}
	if cfg.JitterFactor != DefaultJitterFactor {
		t.Errorf("JitterFactor = %v, want %v", cfg.JitterFactor, DefaultJitterFactor)
	}
}
