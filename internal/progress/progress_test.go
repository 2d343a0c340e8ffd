package progress

import "testing"

func TestHumanBytesFormatsUnits(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{512, "512 B"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}
	for _, c := range cases {
		if got := humanBytes(c.in); got != c.want {
			t.Errorf("humanBytes(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestHumanCountAddsSeparators(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-42, "-42"},
	}
	for _, c := range cases {
		if got := humanCount(c.in); got != c.want {
			t.Errorf("humanCount(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNewManagerAndTrackerDoesNotPanic(t *testing.T) {
	mgr := NewManager(2)
	tr := mgr.NewTracker(0, "example-hospital-standard-charges.json")
	tr.SetStage("downloading")
	tr.SetProgress(100, 1000)
	tr.SetCounter("rows", 42)
	tr.LogWarning("example warning")
	tr.Done()
}

func TestNewErrorLoggerReturnsUsableLogger(t *testing.T) {
	logger := NewErrorLogger(false)
	if logger == nil {
		t.Fatal("expected non-nil logger")
	}
	logger.Info("test message", "key", "value")
}
