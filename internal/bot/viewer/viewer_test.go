package viewer

import "testing"

func TestClampPage(t *testing.T) {
	tests := []struct {
		page, totalPages, want int
	}{
		{0, 3, 0},
		{2, 3, 2},
		{3, 3, 2},
		{7, 3, 2},
		{-1, 3, 0},
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := clampPage(tt.page, tt.totalPages); got != tt.want {
			t.Errorf("clampPage(%d, %d) = %d, want %d", tt.page, tt.totalPages, got, tt.want)
		}
	}
}

func TestPageKeyboardClampsNavigation(t *testing.T) {
	// A page number past the end renders as the last page: no forward
	// button, back button present, counter at the last page.
	kb := pageKeyboard(7, 3)
	nav := kb.InlineKeyboard[1]

	var hasPrev, hasNext, hasCounter bool
	for _, button := range nav {
		switch {
		case button.CallbackData != nil && *button.CallbackData == "page_prev":
			hasPrev = true
		case button.CallbackData != nil && *button.CallbackData == "page_next":
			hasNext = true
		case button.Text == "3/3":
			hasCounter = true
		}
	}
	if !hasPrev {
		t.Error("back button missing on the last page")
	}
	if hasNext {
		t.Error("forward button present past the last page")
	}
	if !hasCounter {
		t.Error("counter does not show the last page")
	}
}

func TestPageKeyboardFirstPage(t *testing.T) {
	kb := pageKeyboard(0, 3)
	nav := kb.InlineKeyboard[1]

	for _, button := range nav {
		if button.CallbackData != nil && *button.CallbackData == "page_prev" {
			t.Error("back button present on the first page")
		}
	}
	if first := nav[0]; first.Text != "1/3" {
		t.Errorf("counter = %q, want %q", first.Text, "1/3")
	}
}
