package domain

import "testing"

func TestMessageBuilders(t *testing.T) {
	sys := SystemMessage("persona")
	if sys.Role != RoleSystem || sys.Content != "persona" {
		t.Errorf("unexpected system message: %+v", sys)
	}
	usr := UserMessage("where to eat")
	if usr.Role != RoleUser || usr.Content != "where to eat" {
		t.Errorf("unexpected user message: %+v", usr)
	}
}
