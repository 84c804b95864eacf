package domain

import (
	"encoding/json"
	"testing"
)

func TestServiceResetUsage(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		wantErr bool
	}{
		{
			name:   "resets used counter",
			config: `{"quota":5,"used":3}`,
		},
		{
			name:   "adds used field when missing",
			config: `{"quota":1}`,
		},
		{
			name:    "invalid config json",
			config:  `not-json`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := Service{ID: "svc1", Config: tt.config}
			err := svc.ResetUsage()
			if tt.wantErr {
				if err == nil {
					t.Fatal("ResetUsage() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ResetUsage() error = %v", err)
			}

			var cfg map[string]interface{}
			if err := json.Unmarshal([]byte(svc.Config), &cfg); err != nil {
				t.Fatalf("config no longer valid json: %v", err)
			}
			if used, ok := cfg["used"].(float64); !ok || used != 0 {
				t.Errorf("used = %v, want 0", cfg["used"])
			}
		})
	}
}

func TestServiceResetUsagePreservesOtherFields(t *testing.T) {
	svc := Service{ID: "svc1", Config: `{"quota":10,"used":7,"tier":"pro"}`}
	if err := svc.ResetUsage(); err != nil {
		t.Fatalf("ResetUsage() error = %v", err)
	}

	var cfg map[string]interface{}
	if err := json.Unmarshal([]byte(svc.Config), &cfg); err != nil {
		t.Fatalf("config no longer valid json: %v", err)
	}
	if quota := cfg["quota"].(float64); quota != 10 {
		t.Errorf("quota = %v, want 10", quota)
	}
	if tier := cfg["tier"].(string); tier != "pro" {
		t.Errorf("tier = %v, want pro", tier)
	}
}
