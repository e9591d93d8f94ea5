package aggregate_test

import (
	"testing"

	"github.com/zeitwerk-app/zeitwerk-be/internal/aggregate"
	"github.com/zeitwerk-app/zeitwerk-be/internal/models"
)

func ms(v int64) *int64 { return &v }

func id(s string) *string { return &s }

func TestSumsPerTask(t *testing.T) {
	sections := []models.Section{
		{Start: 0, End: ms(60000), Kind: models.SectionWork, TaskID: id("T1")},
		{Start: 60000, End: ms(120000), Kind: models.SectionWork, TaskID: id("T1")},
	}
	tasks := []models.Task{{ID: "T1", TotalTrackedTime: 10}}

	deltas := aggregate.ApplyCompletedSections(sections, tasks)
	if deltas["T1"] != 120 {
		t.Fatalf("delta T1 = %d, want 120", deltas["T1"])
	}
}

func TestSkipsUnknownTasks(t *testing.T) {
	sections := []models.Section{
		{Start: 0, End: ms(60000), Kind: models.SectionWork, TaskID: id("gone")},
		{Start: 60000, End: ms(90000), Kind: models.SectionWork, TaskID: id("T1")},
	}
	tasks := []models.Task{{ID: "T1"}}

	deltas := aggregate.ApplyCompletedSections(sections, tasks)
	if _, ok := deltas["gone"]; ok {
		t.Error("deleted task got a delta")
	}
	if deltas["T1"] != 30 {
		t.Errorf("delta T1 = %d, want 30", deltas["T1"])
	}
}

func TestIgnoresPauseAndOpenSections(t *testing.T) {
	sections := []models.Section{
		{Start: 0, End: ms(60000), Kind: models.SectionPause},
		{Start: 60000, End: nil, Kind: models.SectionWork, TaskID: id("T1")},
		{Start: 60000, End: ms(120000), Kind: models.SectionWork}, // 没挂任务
	}
	tasks := []models.Task{{ID: "T1"}}

	deltas := aggregate.ApplyCompletedSections(sections, tasks)
	if len(deltas) != 0 {
		t.Fatalf("deltas = %v, want empty", deltas)
	}
}

func TestOrderDoesNotMatter(t *testing.T) {
	a := models.Section{Start: 0, End: ms(30000), Kind: models.SectionWork, TaskID: id("T1")}
	b := models.Section{Start: 30000, End: ms(90000), Kind: models.SectionWork, TaskID: id("T2")}
	c := models.Section{Start: 90000, End: ms(95000), Kind: models.SectionWork, TaskID: id("T1")}
	tasks := []models.Task{{ID: "T1"}, {ID: "T2"}}

	x := aggregate.ApplyCompletedSections([]models.Section{a, b, c}, tasks)
	y := aggregate.ApplyCompletedSections([]models.Section{c, a, b}, tasks)
	if x["T1"] != y["T1"] || x["T2"] != y["T2"] {
		t.Fatalf("order changed result: %v vs %v", x, y)
	}
	if x["T1"] != 35 || x["T2"] != 60 {
		t.Fatalf("deltas = %v", x)
	}
}

func TestFloorsToWholeSeconds(t *testing.T) {
	sections := []models.Section{
		{Start: 0, End: ms(1999), Kind: models.SectionWork, TaskID: id("T1")},
	}
	tasks := []models.Task{{ID: "T1"}}

	deltas := aggregate.ApplyCompletedSections(sections, tasks)
	if deltas["T1"] != 1 {
		t.Fatalf("delta = %d, want 1 (floor)", deltas["T1"])
	}
}
