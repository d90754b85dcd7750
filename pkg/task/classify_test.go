package task

import (
	"testing"
	"time"
)

// 2024-06-10 is a Monday.
var fixedNow = time.Date(2024, time.June, 10, 9, 30, 0, 0, time.UTC)

func due(s string) Task {
	return Task{ID: s, Title: "t " + s, DueDate: MustDate(s)}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		task      Task
		now       time.Time
		weekStart time.Weekday
		want      Bucket
	}{{
		name: "no due date",
		task: Task{ID: "a", Title: "a"},
		now:  fixedNow,
		want: Other,
	}, {
		name: "today",
		task: due("2024-06-10"),
		now:  fixedNow,
		want: Today,
	}, {
		name: "today late at night",
		task: due("2024-06-10"),
		now:  time.Date(2024, time.June, 10, 23, 59, 59, 0, time.UTC),
		want: Today,
	}, {
		name: "tomorrow",
		task: due("2024-06-11"),
		now:  fixedNow,
		want: Tomorrow,
	}, {
		name: "later this week (sunday start)",
		task: due("2024-06-14"),
		now:  fixedNow,
		want: Week,
	}, {
		name: "saturday is last day of a sunday week",
		task: due("2024-06-15"),
		now:  fixedNow,
		want: Week,
	}, {
		name: "next sunday starts a new week",
		task: due("2024-06-16"),
		now:  fixedNow,
		want: Other,
	}, {
		name:      "next sunday is in a monday week",
		task:      due("2024-06-16"),
		now:       fixedNow,
		weekStart: time.Monday,
		want:      Week,
	}, {
		name: "earlier this week",
		task: due("2024-06-09"),
		now:  fixedNow,
		want: Week,
	}, {
		name:      "yesterday before a monday week start",
		task:      due("2024-06-09"),
		now:       fixedNow,
		weekStart: time.Monday,
		want:      Other,
	}, {
		name: "tomorrow across the week boundary",
		task: due("2024-06-16"),
		now:  time.Date(2024, time.June, 15, 8, 0, 0, 0, time.UTC),
		want: Tomorrow,
	}, {
		name: "far future",
		task: due("2025-01-01"),
		now:  fixedNow,
		want: Other,
	}, {
		name: "past",
		task: due("2024-05-01"),
		now:  fixedNow,
		want: Other,
	}}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ws := tc.weekStart
			if ws == 0 {
				ws = DefaultWeekStart
			}
			got := Classify(tc.task, tc.now, ws)
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
			if again := Classify(tc.task, tc.now, ws); again != got {
				t.Fatalf("classify not idempotent: %s then %s", got, again)
			}
		})
	}
}

func TestClassifyUsesNowLocation(t *testing.T) {
	zone := time.FixedZone("UTC+10", 10*60*60)
	// 20:00 UTC on the 10th is already the 11th in UTC+10.
	now := time.Date(2024, time.June, 10, 20, 0, 0, 0, time.UTC).In(zone)
	if got := Classify(due("2024-06-11"), now, DefaultWeekStart); got != Today {
		t.Fatalf("expected today, got %s", got)
	}
}

func TestClassifyDoesNotMutate(t *testing.T) {
	tk := due("2024-06-11").WithSubtask(Subtask{ID: "s", Title: "s"})
	before := tk.DueDate
	_ = Classify(tk, fixedNow, DefaultWeekStart)
	if tk.DueDate != before || len(tk.Subtasks) != 1 {
		t.Fatal("classify changed the task")
	}
}

func TestDefaultDue(t *testing.T) {
	tests := map[Bucket]string{
		Today:    "2024-06-10",
		Tomorrow: "2024-06-11",
		Week:     "2024-06-13",
		Other:    "",
	}
	for b, want := range tests {
		if got := DefaultDue(b, fixedNow).String(); got != want {
			t.Errorf("%s: expected %q, got %q", b, want, got)
		}
	}
}

func TestAddTomorrowScenario(t *testing.T) {
	tk := Task{ID: "x", Title: "call mom", DueDate: DefaultDue(Tomorrow, fixedNow)}
	if tk.DueDate.String() != "2024-06-11" {
		t.Fatalf("expected 2024-06-11, got %s", tk.DueDate)
	}
	if got := Classify(tk, fixedNow, DefaultWeekStart); got != Tomorrow {
		t.Fatalf("expected tomorrow, got %s", got)
	}
}

func TestIsMissed(t *testing.T) {
	open := due("2024-06-01")
	if !IsMissed(open, fixedNow) {
		t.Fatal("expected open past task to be missed")
	}
	if IsMissed(open.WithCompleted(true), fixedNow) {
		t.Fatal("completed task should not be missed")
	}
	if IsMissed(due("2024-06-10"), fixedNow) {
		t.Fatal("task due today is not missed")
	}
	if IsMissed(Task{ID: "n"}, fixedNow) {
		t.Fatal("undated task is not missed")
	}
}

func TestParseBucket(t *testing.T) {
	for in, want := range map[string]Bucket{"Today": Today, "tomorrow": Tomorrow, "This Week": Week, "week": Week, "others": Other} {
		got, err := ParseBucket(in)
		if err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		if got != want {
			t.Fatalf("%q: expected %s, got %s", in, want, got)
		}
	}
	if _, err := ParseBucket("someday"); err == nil {
		t.Fatal("expected error for unknown bucket")
	}
}

func TestParseWeekday(t *testing.T) {
	d, err := ParseWeekday("Mon")
	if err != nil || d != time.Monday {
		t.Fatalf("expected monday, got %v %v", d, err)
	}
	if _, err := ParseWeekday("funday"); err == nil {
		t.Fatal("expected error")
	}
}
