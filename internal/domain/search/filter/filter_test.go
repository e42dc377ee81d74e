package filter

import "testing"

func ptr(v float64) *float64 { return &v }

func eventWindow(t *testing.T, start, end float64) Expression {
	t.Helper()
	typ, err := NewMatch("type", "Event")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	startRange, err := NewRangeFilter(nil, nil, nil, ptr(end))
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	endRange, err := NewRangeFilter(nil, ptr(start), nil, nil)
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	startCond, _ := NewRange("start_date_numeric", startRange)
	endCond, _ := NewRange("end_date_numeric", endRange)
	expr, err := NewExpression([]Condition{typ, startCond, endCond}, nil, nil)
	if err != nil {
		t.Fatalf("expression: %v", err)
	}
	return expr
}

func TestNewRangeFilter_Validation(t *testing.T) {
	if _, err := NewRangeFilter(nil, nil, nil, nil); err == nil {
		t.Error("expected error for range without bounds")
	}
	if _, err := NewRangeFilter(ptr(1), ptr(1), nil, nil); err == nil {
		t.Error("expected error for gt with gte")
	}
	if _, err := NewRangeFilter(nil, nil, ptr(1), ptr(1)); err == nil {
		t.Error("expected error for lt with lte")
	}
}

func TestNewMatch_Validation(t *testing.T) {
	if _, err := NewMatch("", "Event"); err == nil {
		t.Error("expected error for empty key")
	}
	if _, err := NewMatch("type", ""); err == nil {
		t.Error("expected error for empty value")
	}
}

func TestNewExpression_TooManyConditions(t *testing.T) {
	conds := make([]Condition, MaxConditionsPerGroup+1)
	for i := range conds {
		conds[i], _ = NewMatch("type", "Event")
	}
	if _, err := NewExpression(conds, nil, nil); err == nil {
		t.Error("expected error for too many must conditions")
	}
	if _, err := NewExpression(conds[:MaxConditionsPerGroup], nil, nil); err != nil {
		t.Errorf("unexpected error at max conditions: %v", err)
	}
}

func TestExpression_Equal(t *testing.T) {
	a := eventWindow(t, 20251030, 20251130)
	b := eventWindow(t, 20251030, 20251130)
	c := eventWindow(t, 20251030, 20251201)

	if !a.Equal(b) {
		t.Error("identical windows should be equal")
	}
	if a.Equal(c) {
		t.Error("different windows should not be equal")
	}
	if a.Equal(Expression{}) {
		t.Error("window should not equal empty expression")
	}
	if !(Expression{}).Equal(Expression{}) {
		t.Error("empty expressions should be equal")
	}
}

func TestExpression_String(t *testing.T) {
	got := eventWindow(t, 20251030, 20251130).String()
	want := "type==Event start_date_numeric(-inf,20251130] end_date_numeric[20251030,+inf)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if (Expression{}).String() != "none" {
		t.Errorf("unexpected empty rendering %q", Expression{}.String())
	}
}
