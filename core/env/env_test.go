package env

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ExampleCopyEnv() {
	env := NewStore()
	CopyEnv(env, []string{"A=B", "C=D", "E", "F=G=H"})

	fmt.Printf("Environ(): %q\n", env.Environ())
	fmt.Printf("Get(\"F\"): %q\n", env.Get("F"))

	// Output: Environ(): ["A=B" "C=D" "E=" "F=G=H"]
	// Get("F"): "G=H"
}

func ExampleNewStoreFromEnvList() {
	env := NewStoreFromEnvList([]string{"A=B", "C=D", "A=E"})

	fmt.Printf("Environ(): %q\n", env.Environ())

	// Output: Environ(): ["A=E" "C=D"]
}

func ExampleStore_Unset() {
	env := NewStore()
	env.Set("A", "B")
	env.Set("C", "D")

	fmt.Println("Before:", env.Environ())
	env.Unset("A")
	fmt.Println("After:", env.Environ())

	// Output: Before: [A=B C=D]
	// After: [C=D]
}

func ExampleStore_Lookup() {
	env := NewStore()
	env.Set("A", "B")

	val, ok := env.Lookup("A")
	fmt.Println("Existing", "val:", val, "ok:", ok)
	val, ok = env.Lookup("B")
	fmt.Println("Missing", "val:", val, "ok:", ok)

	// Output: Existing val: B ok: true
	// Missing val:  ok: false
}

func TestIsName(t *testing.T) {
	cases := map[string]bool{
		"":      false,
		"A":     true,
		"_a1":   true,
		"1a":    false,
		"a-b":   false,
		"PATH":  true,
		"a b":   false,
		"Ünï":   false,
		"a_b_9": true,
	}

	for in, expected := range cases {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, expected, IsName(in))
		})
	}
}

func TestParseAssignment(t *testing.T) {
	cases := []struct {
		word     string
		expected Assignment
		ok       bool
	}{
		{"A=1", Assignment{Name: "A", Value: "1"}, true},
		{"A=", Assignment{Name: "A"}, true},
		{"A+=x", Assignment{Name: "A", Value: "x", Append: true}, true},
		{"A=b=c", Assignment{Name: "A", Value: "b=c"}, true},
		{"=1", Assignment{}, false},
		{"1A=1", Assignment{}, false},
		{"A", Assignment{}, false},
		{"A++=1", Assignment{}, false},
	}

	for _, tc := range cases {
		t.Run(tc.word, func(t *testing.T) {
			actual, ok := ParseAssignment(tc.word)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestVars(t *testing.T) {
	t.Run("assign-local", func(t *testing.T) {
		vars := NewVars(nil)
		vars.Assign(Assignment{Name: "A", Value: "1"})

		assert.Equal(t, "1", vars.Local.Get("A"))
		assert.False(t, vars.Global.Has("A"))
	})

	t.Run("assign-keeps-exported", func(t *testing.T) {
		vars := NewVars([]string{"A=1"})
		vars.Assign(Assignment{Name: "A", Value: "2"})

		assert.Equal(t, "2", vars.Global.Get("A"))
		assert.False(t, vars.Local.Has("A"))
	})

	t.Run("assign-append", func(t *testing.T) {
		vars := NewVars([]string{"PATH=/bin"})
		vars.Assign(Assignment{Name: "PATH", Value: ":/usr/bin", Append: true})

		assert.Equal(t, "/bin:/usr/bin", vars.Getenv("PATH"))
	})

	t.Run("export-promotes-local", func(t *testing.T) {
		vars := NewVars(nil)
		vars.Assign(Assignment{Name: "A", Value: "1"})
		vars.Export(Assignment{Name: "A"}, false)

		assert.Equal(t, "1", vars.Global.Get("A"))
		assert.False(t, vars.Local.Has("A"))
	})

	t.Run("export-with-value-moves-local", func(t *testing.T) {
		vars := NewVars(nil)
		vars.Assign(Assignment{Name: "A", Value: "1"})
		vars.Export(Assignment{Name: "A", Value: "2"}, true)

		assert.Equal(t, []string{"A=2"}, vars.Merged())
		assert.Equal(t, 0, vars.Local.Len())
	})

	t.Run("export-unknown-no-value", func(t *testing.T) {
		vars := NewVars(nil)
		vars.Export(Assignment{Name: "A"}, false)

		assert.Empty(t, vars.Merged())
	})

	t.Run("unset-export-unset", func(t *testing.T) {
		vars := NewVars(nil)
		vars.Unset("X")
		vars.Export(Assignment{Name: "X", Value: "1"}, true)
		vars.Unset("X")

		_, inGlobal := vars.Global.Lookup("X")
		_, inLocal := vars.Local.Lookup("X")
		assert.False(t, inGlobal)
		assert.False(t, inLocal)
	})

	t.Run("merged-order", func(t *testing.T) {
		vars := NewVars([]string{"B=2", "A=1"})
		vars.Assign(Assignment{Name: "C", Value: "3"})

		assert.Equal(t, []string{"B=2", "A=1", "C=3"}, vars.Merged())
	})

	t.Run("clone-is-independent", func(t *testing.T) {
		vars := NewVars([]string{"A=1"})
		clone := vars.Clone()
		clone.Setenv("A", "2")

		assert.Equal(t, "1", vars.Getenv("A"))
		assert.Equal(t, "2", clone.Getenv("A"))
	})
}
