package schedule_test

import (
	"encoding/json"
	"testing"
	"time"

	"salones/shared/schedule"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "08:00", want: "08:00"},
		{input: "16:50", want: "16:50"},
		{input: "08:45:00", want: "08:45"},
		{input: "24:00", wantErr: true},
		{input: "10:61", wantErr: true},
		{input: "morning", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := schedule.ParseTimeOfDay(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseTimeOfDay(%q) succeeded, want error", tt.input)
				}

				return
			}

			if err != nil {
				t.Fatalf("ParseTimeOfDay(%q) error: %v", tt.input, err)
			}

			if got.String() != tt.want {
				t.Errorf("ParseTimeOfDay(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestTimeOfDayScan(t *testing.T) {
	var tod schedule.TimeOfDay

	if err := tod.Scan(time.Date(0, time.January, 1, 9, 50, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Scan(time.Time) error: %v", err)
	}

	if tod.String() != "09:50" {
		t.Errorf("Scan(time.Time) = %s, want 09:50", tod)
	}

	if err := tod.Scan([]byte("14:35:00")); err != nil {
		t.Fatalf("Scan([]byte) error: %v", err)
	}

	if tod.String() != "14:35" {
		t.Errorf("Scan([]byte) = %s, want 14:35", tod)
	}

	if err := tod.Scan(42); err == nil {
		t.Error("Scan(int) succeeded, want error")
	}
}

func TestTimeOfDayJSON(t *testing.T) {
	payload := struct {
		Start schedule.TimeOfDay `json:"start"`
	}{Start: schedule.MustParseTimeOfDay("11:35")}

	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}

	if string(raw) != `{"start":"11:35"}` {
		t.Errorf("marshal = %s", raw)
	}

	var decoded struct {
		Start schedule.TimeOfDay `json:"start"`
	}

	if err := json.Unmarshal([]byte(`{"start":"16:05"}`), &decoded); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}

	if decoded.Start.String() != "16:05" {
		t.Errorf("unmarshal = %s, want 16:05", decoded.Start)
	}
}

func TestTimeOfDayAt(t *testing.T) {
	day := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	got := schedule.MustParseTimeOfDay("13:50").At(day)

	want := time.Date(2025, time.March, 3, 13, 50, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("At = %v, want %v", got, want)
	}
}
