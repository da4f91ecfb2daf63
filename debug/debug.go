package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Store   bool
	Patch   bool
	Patches bool
	Query   bool
}

var d *debug

func init() {
	d = &debug{}
	d.Store = boolEnv("DBMAP_DEBUG_STORE")
	d.Patch = boolEnv("DBMAP_DEBUG_PATCH")
	d.Patches = boolEnv("DBMAP_DEBUG_PATCHES")
	d.Query = boolEnv("DBMAP_DEBUG_QUERY")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Store() bool {
	return d.Store
}
func Patch() bool {
	return d.Patch
}
func Patches() bool {
	return d.Patches
}
func Query() bool {
	return d.Query
}

func Logf(msg string, args ...any) {
	for i := range args {
		a := args[i]
		switch a.(type) {
		case map[string]any, []any, json.Number:
			d, err := json.MarshalIndent(a, "   |", "  ")
			if err != nil {
				args[i] = fmt.Sprintf("%v", a)
				continue
			}
			args[i] = string(d)
		case bool, string, float64, int:
		default:
		}
	}
	fmt.Fprintf(os.Stderr, msg, args...)
}

func JSON(v any) string {
	d, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(d)
}
