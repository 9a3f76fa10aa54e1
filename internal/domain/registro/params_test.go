package registro

import (
	"net/url"
	"testing"
)

func TestListKeyStableForEqualParams(t *testing.T) {
	a := Params{Filters: Filters{Employee: "Ana"}, Pagination: Pagination{Page: 0, Limit: 8}}
	b := Params{Pagination: Pagination{Limit: 8}, Filters: Filters{Employee: "Ana"}}
	if ListKey(a) != ListKey(b) {
		t.Fatalf("expected equal keys, got %q and %q", ListKey(a), ListKey(b))
	}
	b.Page = 1
	if ListKey(a) == ListKey(b) {
		t.Fatal("expected different pages to produce different keys")
	}
}

func TestParamsQuery(t *testing.T) {
	p := Params{Filters: Filters{Employee: "Ana"}, Pagination: Pagination{Page: 0, Limit: 8}}
	q, err := url.ParseQuery(p.Query())
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(q) != 3 || q.Get("employee") != "Ana" || q.Get("page") != "0" || q.Get("limit") != "8" {
		t.Fatalf("expected employee, page and limit only, got %v", q)
	}
}

func TestParseListKeyRoundTrip(t *testing.T) {
	p := Params{
		Filters: Filters{
			Employee:    "Silva",
			StartSalary: Float(3000),
			EndSalary:   Float(6500.5),
			StartDate:   "2022-01-01",
		},
		Sort:       Sort{Field: SortBySalary, Direction: SortDesc},
		Pagination: Pagination{Page: 2, Limit: 8},
	}
	got, ok := ParseListKey(ListKey(p))
	if !ok {
		t.Fatal("expected list key to parse")
	}
	if got.Employee != "Silva" || got.StartDate != "2022-01-01" || got.Page != 2 || got.Limit != 8 {
		t.Fatalf("unexpected params %+v", got)
	}
	if got.StartSalary == nil || *got.StartSalary != 3000 || got.EndSalary == nil || *got.EndSalary != 6500.5 {
		t.Fatalf("unexpected salary bounds %+v", got.Filters)
	}
	if got.EndSalaryCalculated != nil {
		t.Fatalf("expected unset bound to stay nil, got %v", *got.EndSalaryCalculated)
	}
	if got.Sort != p.Sort {
		t.Fatalf("expected sort %+v, got %+v", p.Sort, got.Sort)
	}
}

func TestKeyKinds(t *testing.T) {
	if !IsListKey(ListKey(Params{})) {
		t.Fatal("expected list key to be recognized")
	}
	if IsListKey(DetailKey("42")) || !IsDetailKey(DetailKey("42")) {
		t.Fatal("expected detail key to be recognized as detail only")
	}
	if _, ok := ParseListKey("garbage"); ok {
		t.Fatal("expected malformed key to be rejected")
	}
}

func TestSortToggle(t *testing.T) {
	var s Sort
	s = s.Toggle(SortBySalary)
	if s.Field != SortBySalary || s.Direction != SortAsc {
		t.Fatalf("expected salary asc, got %+v", s)
	}
	s = s.Toggle(SortBySalary)
	if s.Direction != SortDesc {
		t.Fatalf("expected salary desc, got %+v", s)
	}
	s = s.Toggle(SortByEmployee)
	if s.Field != SortByEmployee || s.Direction != SortAsc {
		t.Fatalf("expected employee asc, got %+v", s)
	}
}

func TestTotalPages(t *testing.T) {
	cases := map[[2]int]int{{0, 8}: 0, {8, 8}: 1, {9, 8}: 2, {10, 8}: 2, {5, 0}: 0}
	for in, want := range cases {
		if got := TotalPages(in[0], in[1]); got != want {
			t.Fatalf("TotalPages(%d, %d): expected %d, got %d", in[0], in[1], want, got)
		}
	}
}

func TestParseParams(t *testing.T) {
	q, err := url.ParseQuery("employee=Ana&employee=Bia&startSalary=1500.5&endSalary=abc&page=3&limit=8&orderBy=salary&order=desc&startDate=")
	if err != nil {
		t.Fatalf("parse query: %v", err)
	}
	p := ParseParams(q)
	if p.Employee != "Ana" {
		t.Fatalf("expected first employee value, got %q", p.Employee)
	}
	if p.StartSalary == nil || *p.StartSalary != 1500.5 {
		t.Fatalf("expected startSalary 1500.5, got %v", p.StartSalary)
	}
	if p.EndSalary != nil {
		t.Fatalf("expected malformed endSalary to be unset, got %v", *p.EndSalary)
	}
	if p.StartDate != "" || p.Page != 3 || p.Limit != 8 {
		t.Fatalf("unexpected params %+v", p)
	}
	if p.Sort != (Sort{Field: SortBySalary, Direction: SortDesc}) {
		t.Fatalf("unexpected sort %+v", p.Sort)
	}
}
