package query

import (
	"testing"
)

type doc = map[string]any

type queryTest struct {
	Name   string
	Src    string
	Params map[string]any
	Doc    doc
	Want   bool
}

func TestQuery(t *testing.T) {
	tests := []queryTest{
		{
			Name: "field at top level",
			Src:  `age > 21`,
			Doc:  doc{"uid": "a", "age": 30},
			Want: true,
		},
		{
			Name: "field via doc",
			Src:  `doc.age > 21`,
			Doc:  doc{"uid": "a", "age": 30},
			Want: true,
		},
		{
			Name:   "params bound",
			Src:    `age >= params.min`,
			Params: map[string]any{"min": 18},
			Doc:    doc{"uid": "a", "age": 17},
			Want:   false,
		},
		{
			Name: "missing field is false",
			Src:  `age > 21`,
			Doc:  doc{"uid": "a"},
			Want: false,
		},
		{
			Name: "string match",
			Src:  `name startsWith "al"`,
			Doc:  doc{"uid": "a", "name": "alice"},
			Want: true,
		},
		{
			Name: "nil params",
			Src:  `uid == "a"`,
			Doc:  doc{"uid": "a"},
			Want: true,
		},
	}
	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			q, err := New[doc](test.Src)
			if err != nil {
				t.Fatal(err)
			}
			pred, err := q.Predicate(test.Params)
			if err != nil {
				t.Fatal(err)
			}
			if got := pred(test.Doc); got != test.Want {
				t.Errorf("%q on %v = %v, want %v", test.Src, test.Doc, got, test.Want)
			}
		})
	}
}

func TestCompileError(t *testing.T) {
	if _, err := New[doc](`age >`); err == nil {
		t.Error("expected compile error")
	}
}

func TestStructValues(t *testing.T) {
	type user struct {
		Name string
		Age  int
	}
	q, err := New[user](`doc.Age > 21`)
	if err != nil {
		t.Fatal(err)
	}
	pred, err := q.Predicate(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !pred(user{Name: "al", Age: 30}) {
		t.Error("doc.Age > 21 = false for Age 30")
	}
	if pred(user{Name: "bo", Age: 10}) {
		t.Error("doc.Age > 21 = true for Age 10")
	}
}

func TestMatchFunc(t *testing.T) {
	f := Match(func(d doc) bool { return d["x"] == 1 })
	pred, err := f.Predicate(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !pred(doc{"x": 1}) || pred(doc{"x": 2}) {
		t.Error("Match adapter misbehaves")
	}
}
