package property

import (
	"errors"
	"sync"

	"github.com/testerpester2/xrizer/pkg/backend"
	"github.com/testerpester2/xrizer/pkg/binding"
)

// Store errors.
var (
	// ErrNotConnected means the device index has no active device.
	ErrNotConnected = errors.New("device not connected")

	// ErrNotSupported means the key is not meaningful for the device's
	// class. Callers should stop polling it.
	ErrNotSupported = errors.New("property not supported for device class")

	// ErrNotSet means the key is supported but no value has been
	// reported yet.
	ErrNotSet = errors.New("property not set")

	// ErrTypeMismatch means the key exists with a different type than
	// requested.
	ErrTypeMismatch = errors.New("property type mismatch")
)

// Value is one typed property value.
type Value struct {
	Type   ValueType
	Bool   bool
	Int32  int32
	Uint64 uint64
	Float  float64
	String string
	Bytes  []byte
}

// BoolValue wraps a bool.
func BoolValue(v bool) Value { return Value{Type: TypeBool, Bool: v} }

// Int32Value wraps an int32.
func Int32Value(v int32) Value { return Value{Type: TypeInt32, Int32: v} }

// Uint64Value wraps a uint64.
func Uint64Value(v uint64) Value { return Value{Type: TypeUint64, Uint64: v} }

// FloatValue wraps a float64.
func FloatValue(v float64) Value { return Value{Type: TypeFloat, Float: v} }

// StringValue wraps a string.
func StringValue(v string) Value { return Value{Type: TypeString, String: v} }

// BytesValue wraps a byte slice.
func BytesValue(v []byte) Value { return Value{Type: TypeBytes, Bytes: v} }

// deviceRecords is the property state of one connected device.
type deviceRecords struct {
	class     backend.DeviceClass
	supported map[Key]ValueType
	values    map[Key]Value
}

// Store holds the property records of all connected devices. Seed and
// Drop are driven from the session's cycle boundary; Get methods are
// safe from any goroutine.
type Store struct {
	mu      sync.RWMutex
	devices map[uint32]*deviceRecords
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{devices: make(map[uint32]*deviceRecords)}
}

// Seed creates the records for a newly attached device and fills the
// class defaults. For controllers with a known interaction profile the
// profile's identity strings are seeded too. Called before the device's
// slot becomes visible to readers.
func (s *Store) Seed(index uint32, class backend.DeviceClass, role backend.Role, profile string) {
	rec := &deviceRecords{
		class:     class,
		supported: supportedKeys(class),
		values:    make(map[Key]Value),
	}

	// Class defaults: every supported boolean answers, possibly false.
	for k, t := range rec.supported {
		if t == TypeBool {
			rec.values[k] = BoolValue(false)
		}
	}

	if props := binding.PropertiesForProfile(profile); props != nil {
		rec.values[KeyTrackingSystemName] = StringValue(props.TrackingSystemName)
		rec.values[KeyManufacturerName] = StringValue(props.ManufacturerName)
		rec.values[KeyModelNumber] = StringValue(props.Model.ForRole(role))
		rec.values[KeySerialNumber] = StringValue(props.SerialNumber.ForRole(role))
		rec.values[KeyRegisteredDeviceType] = StringValue(props.RegisteredDeviceType.ForRole(role))
		if _, ok := rec.supported[KeyRenderModelName]; ok {
			rec.values[KeyRenderModelName] = StringValue(props.RenderModelName.ForRole(role))
		}
		if _, ok := rec.supported[KeyControllerType]; ok {
			rec.values[KeyControllerType] = StringValue(props.ControllerType)
		}
		if _, ok := rec.supported[KeySupportedButtons]; ok {
			rec.values[KeySupportedButtons] = Uint64Value(props.SupportedButtons)
		}
		if _, ok := rec.supported[KeyAxisType]; ok {
			rec.values[KeyAxisType] = Int32Value(int32(props.MainAxis))
		}
		if _, ok := rec.supported[KeyHasHaptics]; ok {
			rec.values[KeyHasHaptics] = BoolValue(class == backend.ClassController)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.devices[index] = rec
}

// Drop removes a device's records. Called after the slot's retirement
// grace has elapsed.
func (s *Store) Drop(index uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.devices, index)
}

// Set stores a backend-reported value, overriding any seeded default.
// The key must be supported for the device's class and the value must
// match the key's declared type.
func (s *Store) Set(index uint32, key Key, value Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.devices[index]
	if !ok {
		return ErrNotConnected
	}
	declared, ok := rec.supported[key]
	if !ok {
		return ErrNotSupported
	}
	if value.Type != declared {
		return ErrTypeMismatch
	}
	rec.values[key] = value
	return nil
}

// get resolves a property with full error discrimination.
func (s *Store) get(index uint32, key Key, want ValueType) (Value, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.devices[index]
	if !ok {
		return Value{}, ErrNotConnected
	}
	declared, ok := rec.supported[key]
	if !ok {
		return Value{}, ErrNotSupported
	}
	if declared != want {
		return Value{}, ErrTypeMismatch
	}
	v, ok := rec.values[key]
	if !ok {
		return Value{}, ErrNotSet
	}
	return v, nil
}

// GetBool reads a boolean property.
func (s *Store) GetBool(index uint32, key Key) (bool, error) {
	v, err := s.get(index, key, TypeBool)
	return v.Bool, err
}

// GetInt32 reads an int32 property.
func (s *Store) GetInt32(index uint32, key Key) (int32, error) {
	v, err := s.get(index, key, TypeInt32)
	return v.Int32, err
}

// GetUint64 reads a uint64 property.
func (s *Store) GetUint64(index uint32, key Key) (uint64, error) {
	v, err := s.get(index, key, TypeUint64)
	return v.Uint64, err
}

// GetFloat reads a float property.
func (s *Store) GetFloat(index uint32, key Key) (float64, error) {
	v, err := s.get(index, key, TypeFloat)
	return v.Float, err
}

// GetString reads a string property.
func (s *Store) GetString(index uint32, key Key) (string, error) {
	v, err := s.get(index, key, TypeString)
	return v.String, err
}

// GetBytes reads a byte-array property.
func (s *Store) GetBytes(index uint32, key Key) ([]byte, error) {
	v, err := s.get(index, key, TypeBytes)
	return v.Bytes, err
}

// Connected reports whether the index has records.
func (s *Store) Connected(index uint32) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.devices[index]
	return ok
}

// Keys returns the supported keys of a connected device, for
// inspection tooling.
func (s *Store) Keys(index uint32) ([]Key, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.devices[index]
	if !ok {
		return nil, ErrNotConnected
	}
	out := make([]Key, 0, len(rec.supported))
	for k := range rec.supported {
		out = append(out, k)
	}
	return out, nil
}
