package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestLastOfMonth(t *testing.T) {
	cases := []struct {
		year  int
		month time.Month
		want  string
	}{
		{2025, time.April, "2025-04-30"},
		{2025, time.January, "2025-01-31"},
		{2024, time.February, "2024-02-29"},
		{2025, time.February, "2025-02-28"},
		{1900, time.February, "1900-02-28"},
		{2000, time.February, "2000-02-29"},
		{2025, time.December, "2025-12-31"},
	}
	for _, c := range cases {
		if got := LastOfMonth(c.year, c.month).String(); got != c.want {
			t.Errorf("LastOfMonth(%d, %d) = %s, want %s", c.year, c.month, got, c.want)
		}
	}
}

func TestDate_InRange(t *testing.T) {
	start := NewDate(2025, time.April, 1)
	end := NewDate(2025, time.April, 30)

	if !start.InRange(start, end) || !end.InRange(start, end) {
		t.Error("range must be inclusive on both ends")
	}
	if NewDate(2025, time.March, 31).InRange(start, end) {
		t.Error("day before start must be out of range")
	}
	if NewDate(2025, time.May, 1).InRange(start, end) {
		t.Error("day after end must be out of range")
	}
}

func TestDate_JSON(t *testing.T) {
	var in struct {
		Date Date `json:"date"`
	}
	if err := json.Unmarshal([]byte(`{"date":"2025-04-22"}`), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if in.Date != NewDate(2025, time.April, 22) {
		t.Errorf("unexpected date: %+v", in.Date)
	}

	out, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"date":"2025-04-22"}` {
		t.Errorf("unexpected json: %s", out)
	}

	if err := json.Unmarshal([]byte(`{"date":"22/04/2025"}`), &in); err == nil {
		t.Error("expected error for non ISO date")
	}
}

func TestDate_Scan(t *testing.T) {
	var d Date
	if err := d.Scan(time.Date(2025, time.April, 22, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("scan time: %v", err)
	}
	if d.String() != "2025-04-22" {
		t.Errorf("scan time: got %s", d)
	}
	if err := d.Scan([]byte("2024-02-29")); err != nil || d.String() != "2024-02-29" {
		t.Errorf("scan bytes: got %s err %v", d, err)
	}
	if err := d.Scan("2024-02-29T00:00:00Z"); err != nil || d.String() != "2024-02-29" {
		t.Errorf("scan timestamp string: got %s err %v", d, err)
	}
	if err := d.Scan(42); err == nil {
		t.Error("expected error scanning int")
	}
}

func TestPageParams_Normalize(t *testing.T) {
	p := PageParams{Page: -1, Size: 500, Sort: "owner"}.Normalize()
	if p.Page != 0 || p.Size != MaxPageSize || p.Sort != SortByDate {
		t.Errorf("unexpected params: %+v", p)
	}
	huge := PageParams{Page: 461168601842738791, Size: 20}.Normalize()
	if huge.Offset() < 0 {
		t.Errorf("offset overflowed: %d", huge.Offset())
	}
	field, desc := ParseSort("Amount,ASC")
	if field != SortByAmount || desc {
		t.Errorf("ParseSort: got %q desc=%v", field, desc)
	}
	if page := NewExpensePage(nil, PageParams{Page: 0, Size: 20}, 41); page.TotalPages != 3 || page.Items == nil {
		t.Errorf("unexpected page: %+v", page)
	}
}

func TestToday_IsUTCDate(t *testing.T) {
	before := DateOf(time.Now().UTC())
	got := Today()
	after := DateOf(time.Now().UTC())
	if got != before && got != after {
		t.Errorf("Today() = %s, want UTC date %s", got, before)
	}
}
