package schema

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

var paperShape = Obj(
	Req("title", Str("paper title")),
	Req("year", Int("").Between(1950, 2100)),
	Req("kind", Enum("seminal", "improvement")),
	Req("authors", Arr(Str(""))),
	Opt("score", Num("")),
)

type paper struct {
	Title   string   `json:"title"`
	Year    int      `json:"year"`
	Kind    string   `json:"kind"`
	Authors []string `json:"authors"`
	Score   *float64 `json:"score"`
}

type rankedPaper struct {
	paper
	Rank int `json:"rank"`
}

func (p *rankedPaper) Validate() error {
	if p.Rank < 1 {
		return errors.New("rank must be positive")
	}
	return nil
}

func TestDecode(t *testing.T) {
	got, err := Decode[paper](`{"title":"Attention Is All You Need","year":2017,"kind":"seminal","authors":["Vaswani"]}`, paperShape)
	require.NoError(t, err)
	assert.Equal(t, "Attention Is All You Need", got.Title)
	assert.Equal(t, 2017, got.Year)
	assert.Equal(t, []string{"Vaswani"}, got.Authors)
	assert.Nil(t, got.Score)
}

func TestDecodeStripsFence(t *testing.T) {
	raw := "```json\n{\"title\":\"ResNet\",\"year\":2015,\"kind\":\"improvement\",\"authors\":[]}\n```"
	got, err := Decode[paper](raw, paperShape)
	require.NoError(t, err)
	assert.Equal(t, "ResNet", got.Title)
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{"malformed", `{"title":`, "malformed JSON"},
		{"not an object", `[1,2]`, "$: expected object, got array"},
		{"missing field", `{"year":2017,"kind":"seminal","authors":[]}`, "$.title: required field missing"},
		{"null field", `{"title":null,"year":2017,"kind":"seminal","authors":[]}`, "$.title: required field missing"},
		{"unknown enum tag", `{"title":"x","year":2017,"kind":"survey","authors":[]}`, `$.kind: "survey" is not one of [seminal, improvement]`},
		{"fractional integer", `{"title":"x","year":2017.5,"kind":"seminal","authors":[]}`, "$.year: 2017.5 is not an integer"},
		{"out of range", `{"title":"x","year":1800,"kind":"seminal","authors":[]}`, "$.year: 1800 is below minimum 1950"},
		{"wrong item type", `{"title":"x","year":2017,"kind":"seminal","authors":["a",3]}`, "$.authors[1]: expected string, got number"},
		{"wrong optional type", `{"title":"x","year":2017,"kind":"seminal","authors":[],"score":"high"}`, "$.score: expected number, got string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode[paper](tt.raw, paperShape)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateReportsEveryViolation(t *testing.T) {
	_, err := Decode[paper](`{"year":"2017","kind":"survey","authors":{}}`, paperShape)
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 4)
}

func TestDecodeRunsValidator(t *testing.T) {
	shape := Obj(append(paperShape.Fields, Req("rank", Int("")))...)

	_, err := Decode[rankedPaper](`{"title":"x","year":2017,"kind":"seminal","authors":[],"rank":0}`, shape)
	require.EqualError(t, err, "rank must be positive")

	got, err := Decode[rankedPaper](`{"title":"x","year":2017,"kind":"seminal","authors":[],"rank":1}`, shape)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Rank)
}

func TestArrayBounds(t *testing.T) {
	box := Arr(Num("")).Len(4)

	assert.NoError(t, Validate(box, []any{jsonNum("1"), jsonNum("2"), jsonNum("3"), jsonNum("4")}))
	assert.ErrorContains(t, Validate(box, []any{jsonNum("1")}), "expected at least 4 items, got 1")
}

func TestShapeHelpers(t *testing.T) {
	base := Str("")
	described := base.Describe("a title")
	assert.Empty(t, base.Description)
	assert.Equal(t, "a title", described.Description)

	assert.Equal(t, []string{"title", "year", "kind", "authors"}, paperShape.Required())
}

func TestStripFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripFence(` {"a":1} `))
	assert.Equal(t, `{"a":1}`, StripFence("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripFence("```json\n{\"a\":1}```"))
}

func jsonNum(s string) any {
	return json.Number(s)
}
