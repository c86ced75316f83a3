package game

import "testing"

// TestLevelTimer 测试计时器启停与保存
func TestLevelTimer(t *testing.T) {
	prefs, _ := NewPrefs(nil)
	timer := NewLevelTimer(prefs)

	timer.Update(1)
	if timer.Elapsed() != 0 {
		t.Errorf("stopped timer advanced: %v", timer.Elapsed())
	}

	timer.Start()
	timer.Update(1.5)
	timer.Stop()
	timer.Update(10)
	if timer.Elapsed() != 1.5 {
		t.Errorf("Elapsed: got %v, want 1.5", timer.Elapsed())
	}

	if err := timer.SaveTotalTime(); err != nil {
		t.Fatalf("SaveTotalTime: %v", err)
	}
	if got := prefs.GetFloat(PrefKeyTotalTime, 0); got != 1.5 {
		t.Errorf("TotalTime: got %v, want 1.5", got)
	}

	timer.Reset()
	if timer.Elapsed() != 0 || !timer.Running() {
		t.Error("Reset should clear and restart the timer")
	}
}

// TestFormatClock 测试 mm:ss 格式
func TestFormatClock(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00"},
		{59.9, "00:59"},
		{61, "01:01"},
		{3600, "60:00"},
		{-5, "00:00"},
	}
	for _, tt := range tests {
		if got := FormatClock(tt.seconds); got != tt.want {
			t.Errorf("FormatClock(%v): got %q, want %q", tt.seconds, got, tt.want)
		}
	}
}
