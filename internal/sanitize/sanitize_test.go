package sanitize

import "testing"

func TestFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"обычное имя", "cat.png", "cat.png"},
		{"пробелы в подчёркивания", "my cat.png", "my_cat.png"},
		{"unix путь отбрасывается", "/etc/passwd", "passwd"},
		{"windows путь отбрасывается", "C:\\Users\\cat.png", "cat.png"},
		{"выход из каталога", "../../secret.png", "secret.png"},
		{"только точки", "..", ""},
		{"скрытый файл", ".hidden", "hidden"},
		{"кириллица удаляется", "котик.png", "png"},
		{"спецсимволы удаляются", "a<b>c|d.png", "abcd.png"},
		{"пустая строка", "", ""},
		{"хвостовые точки срезаются", "name...", "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Filename(tt.input); got != tt.expected {
				t.Errorf("Filename(%q) = %q, ожидается %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFilename_TrimsLeadingDots(t *testing.T) {
	// ".png" после Trim остаётся "png" — ведущая точка срезана
	if got := Filename(".png"); got != "png" {
		t.Errorf("Filename(.png) = %q, ожидается png", got)
	}
}

func TestBase(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"обычное имя", "cat", "cat"},
		{"точки в подчёркивания", "my.cat", "my_cat"},
		{"пустое имя — запасное", "", "file"},
		{"только недопустимые символы — запасное", "котик", "file"},
		{"пробелы", "my cat", "my_cat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Base(tt.input); got != tt.expected {
				t.Errorf("Base(%q) = %q, ожидается %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsClean(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"cat.png", true},
		{"my_cat-2.png", true},
		{"", false},
		{"../cat.png", false},
		{"dir/cat.png", false},
		{"my cat.png", false},
		{".hidden", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsClean(tt.input); got != tt.expected {
				t.Errorf("IsClean(%q) = %v, ожидается %v", tt.input, got, tt.expected)
			}
		})
	}
}
