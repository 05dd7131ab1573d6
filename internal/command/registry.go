package command

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"sync"
)

var (
	// registry хранит зарегистрированные обработчики: имя команды → обработчик.
	registry = make(map[string]Handler)
	mu       sync.RWMutex
	// commandNamePattern: strict kebab-case, начинается с буквы.
	commandNamePattern = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)
)

// Ошибки регистрации.
var (
	ErrNilHandler     = errors.New("command: nil handler")
	ErrEmptyName      = errors.New("command: empty handler name")
	ErrInvalidName    = errors.New("command: invalid handler name format (must be kebab-case)")
	ErrDuplicate      = errors.New("command: duplicate handler registration")
	ErrAliasSameAsNew = errors.New("command: deprecated name cannot be same as handler name")
)

// Register регистрирует обработчик команды в глобальном реестре.
// Формат имени: kebab-case (a-z, 0-9, дефис), начинается с буквы.
func Register(h Handler) error {
	if h == nil {
		return ErrNilHandler
	}
	name := h.Name()
	if name == "" {
		return ErrEmptyName
	}
	if !commandNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %s", ErrInvalidName, name)
	}

	mu.Lock()
	defer mu.Unlock()

	if _, exists := registry[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, name)
	}
	registry[name] = h
	return nil
}

// RegisterWithAlias регистрирует обработчик под его именем и, если deprecated
// не пуст, под deprecated именем через DeprecatedBridge.
//
// Deprecated имя не проверяется на kebab-case: legacy имена допустимы.
func RegisterWithAlias(h Handler, deprecated string) error {
	if h == nil {
		return ErrNilHandler
	}
	if deprecated != "" && deprecated == h.Name() {
		return fmt.Errorf("%w: %s", ErrAliasSameAsNew, deprecated)
	}
	if err := Register(h); err != nil {
		return err
	}
	if deprecated == "" {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[deprecated]; exists {
		delete(registry, h.Name())
		return fmt.Errorf("%w: %s", ErrDuplicate, deprecated)
	}
	registry[deprecated] = &DeprecatedBridge{
		actual:     h,
		deprecated: deprecated,
		newName:    h.Name(),
	}
	return nil
}

// Get возвращает обработчик по имени; (nil, false) если команда не зарегистрирована.
func Get(name string) (Handler, bool) {
	mu.RLock()
	defer mu.RUnlock()
	h, ok := registry[name]
	return h, ok
}

// All возвращает копию реестра.
func All() map[string]Handler {
	mu.RLock()
	defer mu.RUnlock()
	result := make(map[string]Handler, len(registry))
	for k, v := range registry {
		result[k] = v
	}
	return result
}

// Names возвращает отсортированный список имён, включая deprecated алиасы.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Info описывает команду и её deprecated алиас.
type Info struct {
	Name            string
	Description     string
	DeprecatedAlias string
}

// ListAllWithAliases возвращает основные команды, отсортированные по имени.
// Deprecated bridges не попадают отдельными записями: их имена указываются
// в DeprecatedAlias основной команды.
func ListAllWithAliases() []Info {
	mu.RLock()
	defer mu.RUnlock()

	aliasMap := make(map[string]string)
	for _, h := range registry {
		if bridge, ok := h.(*DeprecatedBridge); ok {
			aliasMap[bridge.newName] = bridge.deprecated
		}
	}

	result := make([]Info, 0, len(registry)-len(aliasMap))
	for name, h := range registry {
		if _, isBridge := h.(*DeprecatedBridge); isBridge {
			continue
		}
		result = append(result, Info{
			Name:            name,
			Description:     h.Description(),
			DeprecatedAlias: aliasMap[name],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// clearRegistry очищает реестр. Только для тестов.
func clearRegistry() {
	mu.Lock()
	defer mu.Unlock()
	registry = make(map[string]Handler)
}
