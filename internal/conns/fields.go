package conns

import "github.com/willibrandon/irisconns/internal/prompt"

// Default values applied by NewConfig and by the file resolver.
const (
	DefaultHostname  = "localhost"
	DefaultPort      = "1972"
	DefaultNamespace = "USER"
)

// fieldBinding ties a declared prompt field to typed accessors on Config.
type fieldBinding struct {
	prompt.Field
	get func(*Config) prompt.Value
	set func(*Config, prompt.Value)
}

// fields is the fixed fill order.
var fields = []fieldBinding{
	{
		Field: prompt.NewField("hostname", "Hostname", DefaultHostname, false),
		get:   func(c *Config) prompt.Value { return prompt.Plain(c.Hostname) },
		set:   func(c *Config, v prompt.Value) { c.Hostname = v.Reveal() },
	},
	{
		Field: prompt.NewField("port", "Port", DefaultPort, false),
		get:   func(c *Config) prompt.Value { return prompt.Plain(c.Port) },
		set:   func(c *Config, v prompt.Value) { c.Port = v.Reveal() },
	},
	{
		Field: prompt.NewField("namespace", "Namespace", DefaultNamespace, false),
		get:   func(c *Config) prompt.Value { return prompt.Plain(c.Namespace) },
		set:   func(c *Config, v prompt.Value) { c.Namespace = v.Reveal() },
	},
	{
		Field: prompt.NewField("username", "Username", "", false),
		get:   func(c *Config) prompt.Value { return prompt.Plain(c.Username) },
		set:   func(c *Config, v prompt.Value) { c.Username = v.Reveal() },
	},
	{
		Field: prompt.NewField("password", "Password", "", true),
		get:   func(c *Config) prompt.Value { return c.Password },
		set: func(c *Config, v prompt.Value) {
			if m, ok := v.(prompt.Masked); ok {
				c.Password = m
				return
			}
			c.Password = prompt.NewMasked(v.Reveal())
		},
	},
}

// Fields returns the declared prompt fields in fill order.
func Fields() []prompt.Field {
	out := make([]prompt.Field, len(fields))
	for i, f := range fields {
		out[i] = f.Field
	}
	return out
}

// FieldValue returns the current value of the declared field key, or nil
// for an unknown key.
func (c *Config) FieldValue(key string) prompt.Value {
	for _, f := range fields {
		if f.Key == key {
			return f.get(c)
		}
	}
	return nil
}
