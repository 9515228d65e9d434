package dataset

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/KaramelBytes/dataset-explorer/internal/schema"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestLoad_ColumnsAndTypes(t *testing.T) {
	p := writeFile(t, "obesity.csv", "gender,age,weight,obesity_group\n"+
		"female,21,64.5,normal_weight\n"+
		"male,,80,obesity_type_i\n"+
		"male,30,NaN,overweight_level_i\n")
	ds, err := Load(p, Options{Categorical: []string{"gender", "obesity_group"}})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ds.Name() != "obesity.csv" || ds.Rows() != 3 {
		t.Fatalf("name=%s rows=%d", ds.Name(), ds.Rows())
	}
	if want := []string{"gender", "age", "weight", "obesity_group"}; !reflect.DeepEqual(ds.Columns(), want) {
		t.Fatalf("columns=%v want %v", ds.Columns(), want)
	}
	if want := []string{"age", "weight"}; !reflect.DeepEqual(ds.NumericColumns(), want) {
		t.Fatalf("numeric=%v want %v", ds.NumericColumns(), want)
	}
	age, err := ds.Floats("age")
	if err != nil {
		t.Fatalf("floats: %v", err)
	}
	if age[0] != 21 || !math.IsNaN(age[1]) || age[2] != 30 {
		t.Fatalf("age=%v", age)
	}
	w, _ := ds.Floats("weight")
	if !math.IsNaN(w[2]) {
		t.Fatalf("expected NaN cell to load as NaN, got %v", w[2])
	}
	g, err := ds.Strings("obesity_group")
	if err != nil {
		t.Fatalf("strings: %v", err)
	}
	if g[1] != "obesity_type_i" {
		t.Fatalf("groups=%v", g)
	}
}

func TestLoad_AccessorsReturnCopies(t *testing.T) {
	p := writeFile(t, "d.csv", "age,weight\n25,70\n30,85\n")
	ds, err := Load(p, Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	a, _ := ds.Floats("age")
	a[0] = 999
	b, _ := ds.Floats("age")
	if b[0] != 25 {
		t.Fatalf("dataset mutated through accessor: %v", b)
	}
}

func TestLoad_TSVDelimiterFromExtension(t *testing.T) {
	p := writeFile(t, "d.tsv", "age\tweight\n25\t70\n")
	ds, err := Load(p, Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(ds.Columns()) != 2 {
		t.Fatalf("columns=%v", ds.Columns())
	}
}

func TestLoad_Failures(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.csv")
	empty := writeFile(t, "empty.csv", "")
	for _, p := range []string{missing, empty} {
		_, err := Load(p, Options{})
		if !errors.Is(err, ErrDatasetLoad) {
			t.Fatalf("%s: expected ErrDatasetLoad, got %v", p, err)
		}
		var le *DatasetLoadError
		if !errors.As(err, &le) || le.Path != p {
			t.Fatalf("%s: expected DatasetLoadError with path, got %v", p, err)
		}
	}
}

func TestUnknownColumn(t *testing.T) {
	ds, err := FromReader("mem", strings.NewReader("age\n1\n2\n"), Options{})
	if err != nil {
		t.Fatalf("from reader: %v", err)
	}
	if _, err := ds.Floats("bmi"); !errors.Is(err, ErrUnknownColumn) {
		t.Fatalf("expected ErrUnknownColumn, got %v", err)
	}
	if ds.Has("bmi") || !ds.Has("age") {
		t.Fatalf("Has mismatch")
	}
}

func TestDescribe(t *testing.T) {
	ds, err := FromReader("obesity.csv", strings.NewReader("gender,age,obesity_group\n"+
		"female,20,normal_weight\n"+
		"male,30,normal_weight\n"+
		"male,,obesity_type_iii\n"+
		"female,40,mystery\n"), Options{Categorical: []string{"gender", "obesity_group"}})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	s, err := schema.Default().Resolve(ds.Columns(), ds.NumericColumns())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	sum := Describe(ds, s)
	if sum.Rows != 4 || len(sum.Cols) != 3 {
		t.Fatalf("rows=%d cols=%d", sum.Rows, len(sum.Cols))
	}
	age := sum.Cols[1]
	if age.Kind != KindContinuous || age.NonNull != 3 || age.Missing != 1 || age.Mean != 30 || age.Std != 10 || age.Min != 20 || age.Max != 40 {
		t.Fatalf("age summary: %+v", age)
	}
	gender := sum.Cols[0]
	if gender.Kind != KindCategorical || gender.Unique != 2 || len(gender.TopValues) != 2 {
		t.Fatalf("gender summary: %+v", gender)
	}
	if len(sum.Groups) != 7 || sum.Groups[1].Rows != 2 || sum.Groups[6].Rows != 1 || sum.Skipped != 1 {
		t.Fatalf("groups=%+v skipped=%d", sum.Groups, sum.Skipped)
	}
	md := sum.Markdown()
	for _, want := range []string{"[DATASET SUMMARY]", "File: obesity.csv", "- age: continuous (non-null 3, missing 1)", "- normal_weight: 2", "(not canonical): 1"} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}
