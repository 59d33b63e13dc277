package main

import (
	"os"
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/jsbridge/errors"
)

func TestMain(m *testing.M) {
	if err := registerDemos(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestDemoSamples(t *testing.T) {
	for _, d := range demos {
		t.Run(d.name, func(t *testing.T) {
			res, err := evaluate(goja.New(), d, d.sample)
			require.NoError(t, err)
			assert.NotEmpty(t, res.goValue)
			assert.NotEmpty(t, res.jsValue)
		})
	}
}

func TestEvaluate(t *testing.T) {
	d, ok := lookupDemo("point")
	require.True(t, ok)

	res, err := evaluate(goja.New(), d, `{y: 2, x: 1}`)
	require.NoError(t, err)
	assert.Equal(t, "{X:1 Y:2}", res.goValue)
	assert.Equal(t, "{x: 1, y: 2}", res.jsValue)
}

func TestEvaluateErrors(t *testing.T) {
	d, _ := lookupDemo("point")

	_, err := evaluate(goja.New(), d, "  ")
	require.Error(t, err)

	_, err = evaluate(goja.New(), d, `{x: 1, y: "two"}`)
	require.Error(t, err)
	assert.ErrorIs(t, err, &errors.Error{Kind: errors.KindUnexpectedValue})
	assert.Contains(t, renderError(err), "y")
}

func TestInspect(t *testing.T) {
	rt := goja.New()
	v, err := rt.RunString(`(() => { const o = {a: 1n, s: new Set([1]), m: new Map([["k", [true]]]), f: new Uint8Array([1, 2])}; o.self = o; return o })()`)
	require.NoError(t, err)

	out, err := inspect(rt, v)
	require.NoError(t, err)
	assert.Equal(t, `{a: 1n, s: Set {1}, m: Map {"k" => [true]}, f: Uint8Array [1, 2], self: [Circular]}`, out)
}

func TestRunUnknownType(t *testing.T) {
	assert.Error(t, run("1", "nope"))
}
