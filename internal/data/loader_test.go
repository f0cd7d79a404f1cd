package data

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestGetDataMergeOverride(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", `{"x": 1, "y": 2}`)
	b := writeFile(t, dir, "b.json", `{"y": 3}`)

	result := GetData([]string{a, b})

	assert.Equal(t, map[string]interface{}{"x": float64(1), "y": float64(3)}, result.Interface())
}

func TestGetDataShallowMerge(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", `{"nav": {"home": "/", "about": "/about"}}`)
	b := writeFile(t, dir, "b.yaml", "nav:\n  contact: /contact\n")

	result := GetData([]string{a, b})

	nav, ok := result.Get("nav").Map()
	require.True(t, ok)
	assert.Equal(t, []string{"contact"}, nav.Keys())
}

func TestGetDataSkipsMalformed(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", `{"title": "Pattern Lab"}`)
	bad := writeFile(t, dir, "bad.json", `{"title": `)
	badYAML := writeFile(t, dir, "bad.yaml", "title: [unclosed")
	list := writeFile(t, dir, "list.json", `[1, 2, 3]`)
	missing := filepath.Join(dir, "missing.json")
	other := writeFile(t, dir, "notes.txt", "title: nope")

	result := GetData([]string{good, bad, badYAML, list, missing, other})

	assert.Equal(t, []string{"title"}, result.Keys())
	assert.Equal(t, "Pattern Lab", result.Get("title").String())
}

func TestGetDataYAML(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "listitems.yaml", `
title: Hello
count: 2
enabled: true
items:
  - one
  - name: two
    tags: [a, b]
`)

	result := GetData([]string{file})

	assert.Equal(t, "Hello", result.Get("title").String())
	assert.Equal(t, "2", result.Get("count").String())
	assert.Equal(t, "true", result.Get("enabled").String())

	items, ok := result.Get("items").List()
	require.True(t, ok)
	require.Len(t, items, 2)
	assert.Equal(t, "one", items[0].String())
	assert.Equal(t, "two", items[1].Get("name").String())

	tags, ok := items[1].Get("tags").List()
	require.True(t, ok)
	assert.Len(t, tags, 2)
}

func TestGetDataEmptyDocument(t *testing.T) {
	dir := t.TempDir()
	empty := writeFile(t, dir, "empty.yaml", "")

	result := GetData([]string{empty})
	assert.Empty(t, result)
}

func TestMergeData(t *testing.T) {
	original := Collection{"x": Scalar(1), "y": Scalar(2)}
	additional := Collection{"y": Scalar(3), "z": List(Scalar("a"))}

	merged := MergeData(original, additional)

	assert.Equal(t, "1", merged.Get("x").String())
	assert.Equal(t, "3", merged.Get("y").String())
	assert.Equal(t, KindList, merged.Get("z").Kind())

	// inputs untouched
	assert.Equal(t, "2", original.Get("y").String())
	assert.Len(t, original, 2)
	assert.Len(t, additional, 2)
}

func TestMergeDataNil(t *testing.T) {
	merged := MergeData(nil, Collection{"a": Scalar("b")})
	assert.Equal(t, "b", merged.Get("a").String())

	merged = MergeData(Collection{"a": Scalar("b")}, nil)
	assert.Equal(t, "b", merged.Get("a").String())
}

func TestFindDataFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "z.yaml", "a: 1")
	writeFile(t, dir, "b.json", `{}`)
	writeFile(t, dir, "nested/a.json", `{}`)
	writeFile(t, dir, "nested/c.yml", "c: 1")
	writeFile(t, dir, "readme.md", "# nope")

	files := FindDataFiles(dir)

	rel := make([]string, len(files))
	for i, f := range files {
		r, err := filepath.Rel(dir, f)
		require.NoError(t, err)
		rel[i] = filepath.ToSlash(r)
	}
	assert.Equal(t, []string{"b.json", "nested/a.json", "nested/c.yml", "z.yaml"}, rel)
}

func TestFindDataFilesMissingDir(t *testing.T) {
	assert.Empty(t, FindDataFiles(filepath.Join(t.TempDir(), "missing")))
}

func TestValueAccessors(t *testing.T) {
	v := FromInterface(map[string]interface{}{
		"title": "Card",
		"list":  []interface{}{"a", 1},
		"none":  nil,
	})

	assert.Equal(t, KindMap, v.Kind())
	assert.Equal(t, "Card", v.Get("title").String())
	assert.True(t, v.Get("none").IsNull())
	assert.True(t, v.Get("missing").IsNull())
	assert.True(t, v.Get("title").Get("nested").IsNull())

	raw, ok := v.Get("title").Scalar()
	assert.True(t, ok)
	assert.Equal(t, "Card", raw)

	_, ok = v.Get("list").Map()
	assert.False(t, ok)
	assert.Equal(t, "", v.Get("list").String())
	assert.Equal(t, "map", v.Kind().String())
}

func TestValueMarshaling(t *testing.T) {
	c := Collection{"title": Scalar("Card"), "tags": List(Scalar("a"), Scalar("b"))}

	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title": "Card", "tags": ["a", "b"]}`, string(out))

	var back Value
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, "Card", back.Get("title").String())

	y, err := yaml.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(y), "title: Card")

	var fromYAML Value
	require.NoError(t, yaml.Unmarshal(y, &fromYAML))
	tags, ok := fromYAML.Get("tags").List()
	require.True(t, ok)
	assert.Len(t, tags, 2)
}
