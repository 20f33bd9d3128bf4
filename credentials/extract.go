package credentials

// CapabilityKey is the capabilities entry that holds credentials.
const CapabilityKey = "credentials"

// Capabilities is a decoded capabilities bag. Its shape is owned by
// session configuration code and is not validated here.
type Capabilities map[string]any

// SetCredentials stores c under CapabilityKey.
func (caps Capabilities) SetCredentials(c *Credentials) {
	caps[CapabilityKey] = c
}

// Extract returns the credentials stored in caps.
//
// A *Credentials entry is returned as is. A map entry is converted with
// FromMap and its errors propagate. A missing or nil entry, or an entry of
// any other shape, yields nil and no error.
func Extract(caps Capabilities) (*Credentials, error) {
	switch v := caps[CapabilityKey].(type) {
	case *Credentials:
		return v, nil
	case Credentials:
		return &v, nil
	case map[string]any:
		if v == nil {
			return nil, nil
		}
		return FromMap(v)
	case Capabilities:
		if v == nil {
			return nil, nil
		}
		return FromMap(v)
	case map[string]string:
		if v == nil {
			return nil, nil
		}
		raw := make(map[string]any, len(v))
		for k, s := range v {
			raw[k] = s
		}
		return FromMap(raw)
	default:
		return nil, nil
	}
}
