package main

import (
	"fmt"
	"net/netip"

	"github.com/dop251/goja"
	"github.com/google/uuid"

	"github.com/wippyai/jsbridge"
	"github.com/wippyai/jsbridge/types"
)

type point struct {
	X int32 `js:"x"`
	Y int32 `js:"y"`
}

type server struct {
	ID    uuid.UUID                 `js:"id"`
	Name  string                    `js:"name"`
	Addr  netip.Addr                `js:"addr"`
	Port  uint16                    `js:"port"`
	Tags  jsbridge.Set[string]      `js:"tags"`
	Proxy jsbridge.Optional[string] `js:"proxy"`
	Quota int64                     `js:"quota,default"`
	Level level                     `js:"level,default"`
}

type level uint8

const (
	levelDebug level = iota
	levelInfo
	levelWarn
)

func (level) JSEnum() types.EnumDef {
	return types.EnumDef{Variants: []types.Variant{
		types.Unit("debug", int64(levelDebug)),
		types.Unit("info", int64(levelInfo)),
		types.Unit("warn", int64(levelWarn)),
	}}
}

type figure interface{ area() float64 }

type circle struct {
	Radius float64 `js:"radius"`
}

type rect struct {
	W float64 `js:"w"`
	H float64 `js:"h"`
}

func (c circle) area() float64 { return 3.141592653589793 * c.Radius * c.Radius }
func (r rect) area() float64   { return r.W * r.H }

type samples struct {
	Rate uint32    `js:"rate"`
	Data []float32 `js:"data,typed_array"`
}

type node struct {
	Value int32 `js:"value"`
	Next  *node `js:"next"`
}

// demo decodes a JS value into one Go type and marshals it back.
type demo struct {
	roundTrip func(rt *goja.Runtime, v goja.Value) (string, goja.Value, error)
	name      string
	about     string
	sample    string
}

func demoOf[T any](name, about, sample string) demo {
	return demo{
		name:   name,
		about:  about,
		sample: sample,
		roundTrip: func(rt *goja.Runtime, v goja.Value) (string, goja.Value, error) {
			decoded, err := jsbridge.FromJS[T](rt, v)
			if err != nil {
				return "", nil, err
			}
			out, err := jsbridge.ToJS(rt, decoded)
			if err != nil {
				return "", nil, err
			}
			return fmt.Sprintf("%+v", decoded), out, nil
		},
	}
}

var demos = []demo{
	demoOf[point]("point", "record of two int32", `{x: 1, y: 2}`),
	demoOf[server]("server", "record with set, option, uuid, ip and enum fields",
		`{id: "6ba7b810-9dad-11d1-80b4-00c04fd430c8", name: "edge", addr: "10.0.0.1", port: 443, tags: ["a", "b"], proxy: null}`),
	demoOf[[]figure]("figures", "list of a tagged union", `[{type: "circle", radius: 1}, {type: "rect", w: 2, h: 3}]`),
	demoOf[samples]("samples", "record with a Float32Array field", `{rate: 48000, data: new Float32Array([0.5, -0.5])}`),
	demoOf[map[string]int64]("counts", "map of string to BigInt", `new Map([["a", 1n], ["b", 2n]])`),
	demoOf[*node]("list", "linked list through pointers", `{value: 1, next: {value: 2, next: null}}`),
	demoOf[types.Int128]("i128", "128-bit integer", `-1267650600228229401496703205376n`),
}

func registerDemos() error {
	return jsbridge.RegisterUnion[figure](types.EnumDef{Variants: []types.Variant{
		types.VariantOf[circle]("circle", 0),
		types.VariantOf[rect]("rect", 1),
	}})
}

func lookupDemo(name string) (demo, bool) {
	for _, d := range demos {
		if d.name == name {
			return d, true
		}
	}
	return demo{}, false
}

const inspectSource = `(function () {
	const stack = new Set();
	function walk(v) {
		if (typeof v === "bigint") return v + "n";
		if (v === undefined) return "undefined";
		if (v === null || typeof v !== "object") return JSON.stringify(v);
		if (stack.has(v)) return "[Circular]";
		stack.add(v);
		let out;
		if (ArrayBuffer.isView(v)) {
			out = v.constructor.name + " [" + Array.from(v, walk).join(", ") + "]";
		} else if (v instanceof Map) {
			out = "Map {" + Array.from(v, (e) => walk(e[0]) + " => " + walk(e[1])).join(", ") + "}";
		} else if (v instanceof Set) {
			out = "Set {" + Array.from(v, walk).join(", ") + "}";
		} else if (Array.isArray(v)) {
			out = "[" + v.map(walk).join(", ") + "]";
		} else {
			out = "{" + Object.keys(v).map((k) => k + ": " + walk(v[k])).join(", ") + "}";
		}
		stack.delete(v);
		return out;
	}
	return walk;
})()`

// inspect renders v the way a JS console would, including BigInt, Map, Set
// and typed array values that JSON.stringify cannot show.
func inspect(rt *goja.Runtime, v goja.Value) (string, error) {
	fnv, err := rt.RunString(inspectSource)
	if err != nil {
		return "", err
	}
	fn, ok := goja.AssertFunction(fnv)
	if !ok {
		return "", fmt.Errorf("inspect is not a function")
	}
	out, err := fn(goja.Undefined(), v)
	if err != nil {
		return "", err
	}
	return out.String(), nil
}
