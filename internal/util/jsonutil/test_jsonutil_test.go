package jsonutil

import (
	"testing"

	"nexus/internal/tester"
)

type payload struct {
	Edges []struct {
		FromIdx int `json:"from_idx"`
		ToIdx   int `json:"to_idx"`
	} `json:"edges"`
}

func TestUnmarshalFlex_StrictJSON(t *testing.T) {
	var p payload
	tester.NoErr(t, UnmarshalFlex([]byte(`{"edges":[{"from_idx":0,"to_idx":1}]}`), &p))
	tester.Eq(t, len(p.Edges), 1)
	tester.Eq(t, p.Edges[0].ToIdx, 1)
}

func TestUnmarshalFlex_FencedJSON(t *testing.T) {
	raw := "Here you go:\n```json\n{\"edges\":[]}\n```\n"
	var p payload
	tester.NoErr(t, UnmarshalFlex([]byte(raw), &p))
	tester.Eq(t, len(p.Edges), 0)
}

func TestUnmarshalFlex_RejectsGarbage(t *testing.T) {
	var p payload
	tester.Err(t, UnmarshalFlex([]byte(`definitely not json`), &p))
}

func TestStripFences(t *testing.T) {
	tester.Eq(t, string(StripFences([]byte("```json\n{\"a\":1}\n```"))), `{"a":1}`)
	tester.Eq(t, string(StripFences([]byte(`{"a":1}`))), `{"a":1}`)
}

func TestMarshalNoEscape(t *testing.T) {
	b, err := MarshalNoEscape(map[string]string{"k": "<b> & more"})
	tester.NoErr(t, err)
	tester.Eq(t, string(b), `{"k":"<b> & more"}`)
}
