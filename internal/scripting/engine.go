package scripting

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/thnplay/thnplay/internal/thn"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

// ErrScript wraps every failure to execute or convert a Thn script.
var ErrScript = errors.New("scripting: invalid thn script")

// Extensions lists the file extensions treated as Thn scripts.
var Extensions = []string{".thn", ".lua"}

// Engine loads Thn scripts. Each script runs in its own short-lived
// gopher-lua VM, so an Engine may be shared between goroutines.
type Engine struct {
	log *zap.Logger
}

func NewEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{log: log}
}

// LoadFile reads and converts the script at path. The script is named after
// the file without its extension.
func (e *Engine) LoadFile(path string) (*thn.Script, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return e.Load(name, src)
}

// Load executes src and converts the resulting timeline. The script may
// either return a table with duration, entities and events fields or set
// them as globals.
func (e *Engine) Load(name string, src []byte) (*thn.Script, error) {
	vm := newVM()
	defer vm.Close()

	top := vm.GetTop()
	fn, err := vm.LoadString(string(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrScript, name, err)
	}
	vm.Push(fn)
	if err := vm.PCall(0, lua.MultRet, nil); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrScript, name, err)
	}

	root := vm.G.Global
	if vm.GetTop() > top {
		if t, ok := vm.Get(top + 1).(*lua.LTable); ok {
			root = t
		}
	}

	sum := blake2b.Sum256(src)
	script := &thn.Script{
		Name:     name,
		Checksum: hex.EncodeToString(sum[:]),
	}
	if d, ok := root.RawGetString("duration").(lua.LNumber); ok {
		script.Duration = float64(d)
	}

	entities, ok := root.RawGetString("entities").(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("%w: %s: missing entities table", ErrScript, name)
	}
	for i := 1; i <= entities.MaxN(); i++ {
		t, ok := entities.RawGetInt(i).(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("%w: %s: entity %d is not a table", ErrScript, name, i)
		}
		def, err := convertEntity(t)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: entity %d: %v", ErrScript, name, i, err)
		}
		script.Entities = append(script.Entities, def)
	}

	if events, ok := root.RawGetString("events").(*lua.LTable); ok {
		for i := 1; i <= events.MaxN(); i++ {
			t, ok := events.RawGetInt(i).(*lua.LTable)
			if !ok {
				return nil, fmt.Errorf("%w: %s: event %d is not a table", ErrScript, name, i)
			}
			ev, err := convertEvent(t)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: event %d: %v", ErrScript, name, i, err)
			}
			script.Events = append(script.Events, ev)
		}
	}

	e.log.Debug("loaded thn script",
		zap.String("script", name),
		zap.Int("entities", len(script.Entities)),
		zap.Int("events", len(script.Events)),
		zap.String("checksum", script.Checksum[:12]),
	)
	return script, nil
}

// newVM creates a VM with only the side-effect free standard libraries.
func newVM() *lua.LState {
	vm := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		vm.Push(vm.NewFunction(lib.fn))
		vm.Push(lua.LString(lib.name))
		vm.Call(1, 0)
	}
	registerConstants(vm)
	return vm
}

// Files returns the Thn scripts directly inside dir, sorted by name.
func Files(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !IsScript(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// IsScript reports whether name has a Thn script extension.
func IsScript(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range Extensions {
		if ext == want {
			return true
		}
	}
	return false
}
