package engine

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"

	"github.com/mcncl/jsonkit/internal/config"
	"github.com/mcncl/jsonkit/internal/convert"
	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/inserter"
	"github.com/mcncl/jsonkit/internal/keycase"
	"github.com/mcncl/jsonkit/internal/models"
	"github.com/mcncl/jsonkit/internal/sorter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_RepairScenario(t *testing.T) {
	e := NewEngine()

	fixed := e.FixTrailingCommas(`{"a":1,"b":2,}`)
	assert.Equal(t, `{"a":1,"b":2}`, fixed)
	assert.True(t, e.Validate(fixed).IsValid)

	res := e.Repair("[1,\n 2,\n]")
	assert.True(t, res.Changed)
	assert.Equal(t, "[1,\n 2\n]", res.Text)
	assert.True(t, res.Validation.IsValid)

	res = e.Repair(`{"a" 1,}`)
	assert.True(t, res.Changed)
	assert.False(t, res.Validation.IsValid)
}

func TestEngine_SortKeysScenario(t *testing.T) {
	res := NewEngine().SortKeys(`{"b":2,"a":1}`, sorter.Ascending, sorter.ByKey)
	require.True(t, res.Success)
	assert.Equal(t, "{\n  \"a\": 1,\n  \"b\": 2\n}", res.Content)
}

func TestEngine_UnterminatedObject(t *testing.T) {
	e := NewEngine()
	res := e.Validate("{")

	assert.False(t, res.IsValid)
	require.NotNil(t, res.ErrorPosition)
	assert.Equal(t, models.Position{Offset: 1, Line: 1, Column: 2}, *res.ErrorPosition)

	loc, ok := e.ExtractErrorLocation(res)
	require.True(t, ok)
	assert.Equal(t, models.ErrorLocation{Line: 1, Column: 2}, loc)
}

func TestEngine_ConvertScenario(t *testing.T) {
	e := NewEngine()

	v, err := e.ConvertValue("42", convert.TypeInteger)
	require.NoError(t, err)
	assert.True(t, v.Equal(models.NewFloat(42)))

	_, err = e.ConvertValue("abc", convert.TypeInteger)
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrorTypeConversion, appErr.Type)
}

func TestEngine_InsertScenarios(t *testing.T) {
	e := NewEngine()

	res := e.InsertAtCursor("", 0, "user", models.NewString("x"))
	assert.Equal(t, "{\n  \"user\": \"x\"\n}", res.Text)

	res = e.InsertAtCursor(`{"user":1}`, 5, "user", models.NewString("y"))
	assert.Equal(t, `{"user":1,"user_1":"y"}`, res.Text)
	assert.Equal(t, "user_1", res.Key)
}

func TestEngine_InsertTyped(t *testing.T) {
	e := NewEngine()

	res, err := e.InsertTyped(`{"a":1}`, 0, "tags", "x, y", convert.TypeArray)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"tags":["x","y"]}`, res.Text)

	_, err = e.InsertTyped(`{"a":1}`, 0, "n", "ten", convert.TypeFloat)
	assert.ErrorIs(t, err, errors.ErrTypeMismatch)
}

func TestEngine_FormatAndMinify(t *testing.T) {
	e := NewEngine()

	res := e.Format(`{"a":[1,2]}`, 4)
	require.True(t, res.Success)
	assert.Equal(t, "{\n    \"a\": [\n        1,\n        2\n    ]\n}", res.Content)

	res = e.Minify("{ \"a\" : [ 1 , 2 ] }")
	require.True(t, res.Success)
	assert.Equal(t, `{"a":[1,2]}`, res.Content)
}

func TestEngine_FailuresAreResults(t *testing.T) {
	e := NewEngine()
	invalid := `{"a":1,}`
	validation := e.Validate(invalid)
	require.False(t, validation.IsValid)

	results := map[string]models.FormatResult{
		"format":  e.Format(invalid, 2),
		"minify":  e.Minify(invalid),
		"sort":    e.SortKeys(invalid, sorter.Descending, sorter.ByType),
		"keycase": e.FormatKeyCase(invalid, keycase.Snake),
	}
	for name, res := range results {
		assert.False(t, res.Success, name)
		assert.Empty(t, res.Content, name)
		// The validator's message is passed through unchanged.
		assert.Equal(t, validation.ErrorMessage, res.ErrorMessage, name)
		require.NotNil(t, res.ErrorPosition, name)
		assert.Equal(t, 6, res.ErrorPosition.Offset, name)
	}

	res := e.Format(`{}`, 11)
	assert.False(t, res.Success)
	assert.Contains(t, res.ErrorMessage, "Formatting error")
	assert.Nil(t, res.ErrorPosition)
}

func TestEngine_FormatKeyCaseUsesMappings(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Naming.KeyMappings["id"] = "ID"
	e, err := NewEngineWithConfig(cfg, nil)
	require.NoError(t, err)

	res := e.FormatKeyCase(`{"id":1,"user_name":"x"}`, keycase.Pascal)
	require.True(t, res.Success)
	assert.Equal(t, "{\n  \"ID\": 1,\n  \"UserName\": \"x\"\n}", res.Content)
}

func TestEngine_ConfigDrivesInsert(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Insert.PreserveFormatting = false
	cfg.Formatting.IndentWidth = 1
	e, err := NewEngineWithConfig(cfg, nil)
	require.NoError(t, err)

	res := e.InsertAtCursor(`{"a":1}`, 0, "b", models.Null())
	assert.Equal(t, inserter.StrategyMergeObject, res.Strategy)
	assert.Equal(t, "{\n \"a\": 1,\n \"b\": null\n}", res.Text)
}

func TestEngine_InvalidConfig(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Formatting.IndentWidth = 0
	_, err := NewEngineWithConfig(cfg, nil)
	assert.ErrorIs(t, err, errors.ErrInvalidIndent)
}

func TestEngine_LogsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	e, err := NewEngineWithConfig(config.NewConfig(), logger)
	require.NoError(t, err)

	e.InsertAtCursor(`{"k":1}`, 0, "k", models.Null())
	e.Validate("[")

	out := buf.String()
	assert.Contains(t, out, "key collision resolved")
	assert.Contains(t, out, "used=k_1")
	assert.Contains(t, out, "strategy=splice-object")
	assert.Contains(t, out, "validation failed")
}

func TestExtractErrorLocation_FallsBackToMessage(t *testing.T) {
	res := models.ValidationResult{
		IsValid:      false,
		ErrorMessage: "expected value at line 3, column 14",
	}
	loc, ok := ExtractErrorLocation(res)
	require.True(t, ok)
	assert.Equal(t, models.ErrorLocation{Line: 3, Column: 14}, loc)

	_, ok = ExtractErrorLocation(models.ValidationResult{IsValid: true})
	assert.False(t, ok)

	_, ok = ExtractErrorLocation(models.ValidationResult{ErrorMessage: "no location"})
	assert.False(t, ok)
}

func TestEngine_ConcurrentUse(t *testing.T) {
	e := NewEngine()
	docs := []string{`{"b":1,"a":[1,2,{"d":0,"c":1}]}`, `[1,2,3]`, `{"x":"y"}`}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(doc string) {
			defer wg.Done()
			res := e.SortKeys(doc, sorter.Ascending, sorter.ByKey)
			assert.True(t, res.Success)
			again := e.SortKeys(res.Content, sorter.Ascending, sorter.ByKey)
			assert.Equal(t, res.Content, again.Content)
		}(docs[i%len(docs)])
	}
	wg.Wait()
}
