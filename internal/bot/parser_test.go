package bot

import "testing"

func TestParseCommand(t *testing.T) {
	p := NewCommandParser()

	tests := []struct {
		text      string
		wantCmd   string
		wantArgs  int
		isCommand bool
	}{
		{"!готово 3", "готово", 1, true},
		{"  !Баланс", "баланс", 0, true},
		{"/login пароль", "login", 1, true},
		{"/start@rewards_bot", "start", 0, true},
		{".обмен физические учебные 4", "обмен", 3, true},
		{"просто текст", "", 0, false},
		{"!", "", 0, false},
		{"", "", 0, false},
	}

	for _, tt := range tests {
		cmd, args, ok := p.ParseCommand(tt.text)
		if ok != tt.isCommand {
			t.Errorf("ParseCommand(%q): isCommand = %v, ожидалось %v", tt.text, ok, tt.isCommand)
			continue
		}
		if cmd != tt.wantCmd {
			t.Errorf("ParseCommand(%q): cmd = %q, ожидалось %q", tt.text, cmd, tt.wantCmd)
		}
		if len(args) != tt.wantArgs {
			t.Errorf("ParseCommand(%q): args = %v, ожидалось %d шт.", tt.text, args, tt.wantArgs)
		}
	}
}
