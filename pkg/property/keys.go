package property

import "github.com/testerpester2/xrizer/pkg/backend"

// Key names a device property.
type Key string

// Device property keys.
const (
	// KeyTrackingSystemName is the tracking system identifier (string).
	KeyTrackingSystemName Key = "tracking_system_name"

	// KeyModelNumber is the reported model number (string).
	KeyModelNumber Key = "model_number"

	// KeySerialNumber is the reported serial number (string).
	KeySerialNumber Key = "serial_number"

	// KeyManufacturerName is the reported manufacturer (string).
	KeyManufacturerName Key = "manufacturer_name"

	// KeyControllerType is the legacy controller type string (string).
	KeyControllerType Key = "controller_type"

	// KeyRenderModelName is the legacy render model identifier (string).
	KeyRenderModelName Key = "render_model_name"

	// KeyRegisteredDeviceType is the legacy registered device type
	// (string).
	KeyRegisteredDeviceType Key = "registered_device_type"

	// KeyHasHaptics reports whether the device can render haptics (bool).
	KeyHasHaptics Key = "has_haptics"

	// KeyDeviceIsWireless reports whether the device is wireless (bool).
	KeyDeviceIsWireless Key = "device_is_wireless"

	// KeyDeviceProvidesBatteryStatus reports whether battery level is
	// available (bool).
	KeyDeviceProvidesBatteryStatus Key = "device_provides_battery_status"

	// KeyBatteryPercentage is the battery charge in [0, 1] (float).
	KeyBatteryPercentage Key = "battery_percentage"

	// KeySupportedButtons is the legacy supported-buttons bitmask
	// (uint64).
	KeySupportedButtons Key = "supported_buttons"

	// KeyAxisType is the legacy type of the main 2D axis (int32).
	KeyAxisType Key = "axis_type"

	// KeyDisplayFrequency is the HMD refresh rate in Hz (float).
	KeyDisplayFrequency Key = "display_frequency"

	// KeyUserIpdMeters is the configured interpupillary distance (float).
	KeyUserIpdMeters Key = "user_ipd_meters"

	// KeyFirmwareVersion is the device firmware revision (uint64).
	KeyFirmwareVersion Key = "firmware_version"

	// KeyCameraToHeadTransform is the packed camera offset transform
	// (bytes).
	KeyCameraToHeadTransform Key = "camera_to_head_transform"
)

// ValueType is the declared type of a property key.
type ValueType uint8

const (
	// TypeBool is a boolean property.
	TypeBool ValueType = iota

	// TypeInt32 is a 32-bit signed integer property.
	TypeInt32

	// TypeUint64 is a 64-bit unsigned integer property.
	TypeUint64

	// TypeFloat is a 64-bit float property.
	TypeFloat

	// TypeString is a string property.
	TypeString

	// TypeBytes is an opaque byte-array property.
	TypeBytes
)

// String returns the value type name.
func (t ValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt32:
		return "int32"
	case TypeUint64:
		return "uint64"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypeBytes:
		return "bytes"
	default:
		return "unknown"
	}
}

// keyTypes declares the type of every known key.
var keyTypes = map[Key]ValueType{
	KeyTrackingSystemName:          TypeString,
	KeyModelNumber:                 TypeString,
	KeySerialNumber:                TypeString,
	KeyManufacturerName:            TypeString,
	KeyControllerType:              TypeString,
	KeyRenderModelName:             TypeString,
	KeyRegisteredDeviceType:        TypeString,
	KeyHasHaptics:                  TypeBool,
	KeyDeviceIsWireless:            TypeBool,
	KeyDeviceProvidesBatteryStatus: TypeBool,
	KeyBatteryPercentage:           TypeFloat,
	KeySupportedButtons:            TypeUint64,
	KeyAxisType:                    TypeInt32,
	KeyDisplayFrequency:            TypeFloat,
	KeyUserIpdMeters:               TypeFloat,
	KeyFirmwareVersion:             TypeUint64,
	KeyCameraToHeadTransform:       TypeBytes,
}

// commonKeys are meaningful for every device class.
var commonKeys = []Key{
	KeyTrackingSystemName,
	KeyModelNumber,
	KeySerialNumber,
	KeyManufacturerName,
	KeyRegisteredDeviceType,
	KeyDeviceIsWireless,
	KeyDeviceProvidesBatteryStatus,
	KeyBatteryPercentage,
	KeyFirmwareVersion,
}

// classKeys extends commonKeys per device class.
var classKeys = map[backend.DeviceClass][]Key{
	backend.ClassHMD: {
		KeyRenderModelName,
		KeyDisplayFrequency,
		KeyUserIpdMeters,
		KeyCameraToHeadTransform,
	},
	backend.ClassController: {
		KeyControllerType,
		KeyRenderModelName,
		KeyHasHaptics,
		KeySupportedButtons,
		KeyAxisType,
	},
	backend.ClassGenericTracker: {
		KeyControllerType,
		KeyRenderModelName,
		KeyHasHaptics,
	},
	backend.ClassTrackingReference: {
		KeyRenderModelName,
	},
}

// supportedKeys returns the key set for a device class.
func supportedKeys(class backend.DeviceClass) map[Key]ValueType {
	out := make(map[Key]ValueType, len(commonKeys)+8)
	for _, k := range commonKeys {
		out[k] = keyTypes[k]
	}
	for _, k := range classKeys[class] {
		out[k] = keyTypes[k]
	}
	return out
}
