package structcli

// ParamInfo is the serializable form of a Param, used by inspection
// tooling.
type ParamInfo struct {
	Kind     string `json:"kind" yaml:"kind"`
	Name     string `json:"name" yaml:"name"`
	Short    string `json:"short,omitempty" yaml:"short,omitempty"`
	Field    string `json:"field" yaml:"field"`
	Type     string `json:"type" yaml:"type"`
	Required bool   `json:"required" yaml:"required"`
	Multiple bool   `json:"multiple,omitempty" yaml:"multiple,omitempty"`
	Nargs    int    `json:"nargs,omitempty" yaml:"nargs,omitempty"`
	Default  string `json:"default,omitempty" yaml:"default,omitempty"`
	Help     string `json:"help,omitempty" yaml:"help,omitempty"`
	Env      string `json:"env,omitempty" yaml:"env,omitempty"`
	Hidden   bool   `json:"hidden,omitempty" yaml:"hidden,omitempty"`
}

// Info returns the serializable description of p.
func (p *Param) Info() ParamInfo {
	info := ParamInfo{
		Kind:     p.Kind.String(),
		Name:     p.Display(),
		Short:    p.Short,
		Field:    p.Field,
		Type:     p.Type.Name(),
		Required: p.Required,
		Multiple: p.Multiple,
		Help:     p.Help,
		Env:      p.Env,
		Hidden:   p.Hidden,
	}
	if p.Kind == KindArgument {
		info.Nargs = p.Nargs
	}
	if p.HasDefault && !p.keep {
		info.Default = p.Default
	}
	return info
}

func (b *binding) describe() []ParamInfo {
	infos := make([]ParamInfo, 0, len(b.params))
	for _, p := range b.params {
		infos = append(infos, p.Info())
	}
	return infos
}
