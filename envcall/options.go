package envcall

import (
	"context"
	"unsafe"

	"github.com/reglet-dev/retrohost/abi"
	"github.com/reglet-dev/retrohost/domain/entities"
	"github.com/reglet-dev/retrohost/domain/ports"
)

// OptionsBundle returns the core option commands. SET_CORE_OPTIONS* are
// offered only up to the store's options API version.
func OptionsBundle(o ports.OptionDriver, res Resources) Bundle {
	if o == nil {
		return emptyBundle
	}
	log := res.logger()
	version := o.Version()

	define := func(defs []entities.OptionDefinition, cats []entities.OptionCategory) bool {
		if err := o.SetDefinitions(defs, cats); err != nil {
			log.Warn("rejected core option definitions", "error", err)
			return false
		}
		return true
	}

	h := map[abi.EnvCmd]Handler{}

	h[abi.EnvGetVariable] = Typed(func(_ context.Context, v *abi.Variable) (bool, error) {
		if v.Key == nil || res.Arena == nil {
			return false, nil
		}
		value, ok := o.Variable(abi.GoString(v.Key))
		if !ok {
			return false, nil
		}
		p, err := res.Arena.CString(value)
		if err != nil {
			return false, err
		}
		v.Value = p
		return true, nil
	})

	h[abi.EnvSetVariables] = Typed(func(_ context.Context, first *abi.Variable) (bool, error) {
		raw := abi.Terminated(first, func(v *abi.Variable) bool { return v.Key == nil })
		defs := make([]entities.OptionDefinition, 0, len(raw))
		for _, v := range raw {
			def, ok := entities.ParseLegacyVariable(abi.GoString(v.Key), abi.GoString(v.Value))
			if !ok {
				log.Warn("skipping malformed core variable", "key", abi.GoString(v.Key))
				continue
			}
			defs = append(defs, def)
		}
		return define(defs, nil), nil
	})

	h[abi.EnvGetVariableUpdate] = Query(func() (bool, bool) { return o.Updated(), true })
	h[abi.EnvGetCoreOptionsVersion] = Query(func() (uint32, bool) { return version, true })

	h[abi.EnvSetVariable] = func(_ context.Context, data unsafe.Pointer) (bool, error) {
		if data == nil {
			return true, nil
		}
		v := (*abi.Variable)(data)
		if v.Key == nil || v.Value == nil {
			return false, nil
		}
		return o.SetVariable(abi.GoString(v.Key), abi.GoString(v.Value)), nil
	}

	h[abi.EnvSetCoreOptionsUpdateDisplayCallback] = func(_ context.Context, data unsafe.Pointer) (bool, error) {
		if data == nil {
			return o.SetUpdateDisplayCallback(0), nil
		}
		return o.SetUpdateDisplayCallback((*abi.CoreOptionsUpdateDisplayCallback)(data).Callback), nil
	}

	if version >= 1 {
		h[abi.EnvSetCoreOptions] = Typed(func(_ context.Context, first *abi.CoreOptionDefinition) (bool, error) {
			return define(decodeV1(first, nil), nil), nil
		})
		h[abi.EnvSetCoreOptionsIntl] = Typed(func(_ context.Context, intl *abi.CoreOptionsIntl) (bool, error) {
			return define(decodeV1(intl.US, intl.Local), nil), nil
		})
		h[abi.EnvSetCoreOptionsDisplay] = Typed(func(_ context.Context, d *abi.CoreOptionDisplay) (bool, error) {
			if d.Key == nil {
				return false, nil
			}
			return o.SetVisible(abi.GoString(d.Key), d.Visible), nil
		})
	}
	if version >= 2 {
		h[abi.EnvSetCoreOptionsV2] = Typed(func(_ context.Context, opts *abi.CoreOptionsV2) (bool, error) {
			defs, cats := decodeV2(opts, nil)
			return define(defs, cats), nil
		})
		h[abi.EnvSetCoreOptionsV2Intl] = Typed(func(_ context.Context, intl *abi.CoreOptionsV2Intl) (bool, error) {
			defs, cats := decodeV2(intl.US, intl.Local)
			return define(defs, cats), nil
		})
	}
	return &staticBundle{handlers: h}
}

func optionValues(values *[abi.NumCoreOptionValuesMax]abi.CoreOptionValue) []entities.OptionValue {
	var out []entities.OptionValue
	for _, v := range values {
		if v.Value == nil {
			break
		}
		out = append(out, entities.OptionValue{Value: abi.GoString(v.Value), Label: abi.GoString(v.Label)})
	}
	return out
}

// relabel copies non-empty localized text over the values of the same
// options.
func relabel(values, local []entities.OptionValue) {
	labels := make(map[string]string, len(local))
	for _, v := range local {
		if v.Label != "" {
			labels[v.Value] = v.Label
		}
	}
	for i := range values {
		if l, ok := labels[values[i].Value]; ok {
			values[i].Label = l
		}
	}
}

func pick(local, us string) string {
	if local != "" {
		return local
	}
	return us
}

func decodeV1(us, local *abi.CoreOptionDefinition) []entities.OptionDefinition {
	isEnd := func(d *abi.CoreOptionDefinition) bool { return d.Key == nil }
	localized := map[string]*abi.CoreOptionDefinition{}
	locals := abi.Terminated(local, isEnd)
	for i := range locals {
		localized[abi.GoString(locals[i].Key)] = &locals[i]
	}

	raw := abi.Terminated(us, isEnd)
	defs := make([]entities.OptionDefinition, 0, len(raw))
	for i := range raw {
		d := &raw[i]
		def := entities.OptionDefinition{
			Key:     abi.GoString(d.Key),
			Desc:    abi.GoString(d.Desc),
			Info:    abi.GoString(d.Info),
			Values:  optionValues(&d.Values),
			Default: abi.GoString(d.DefaultValue),
		}
		if l, ok := localized[def.Key]; ok {
			def.Desc = pick(abi.GoString(l.Desc), def.Desc)
			def.Info = pick(abi.GoString(l.Info), def.Info)
			relabel(def.Values, optionValues(&l.Values))
		}
		defs = append(defs, def)
	}
	return defs
}

func decodeV2(us, local *abi.CoreOptionsV2) ([]entities.OptionDefinition, []entities.OptionCategory) {
	if us == nil {
		return nil, nil
	}
	isCatEnd := func(c *abi.CoreOptionV2Category) bool { return c.Key == nil }
	isDefEnd := func(d *abi.CoreOptionV2Definition) bool { return d.Key == nil }

	localCats := map[string]*abi.CoreOptionV2Category{}
	localDefs := map[string]*abi.CoreOptionV2Definition{}
	if local != nil {
		cats := abi.Terminated(local.Categories, isCatEnd)
		for i := range cats {
			localCats[abi.GoString(cats[i].Key)] = &cats[i]
		}
		defs := abi.Terminated(local.Definitions, isDefEnd)
		for i := range defs {
			localDefs[abi.GoString(defs[i].Key)] = &defs[i]
		}
	}

	rawCats := abi.Terminated(us.Categories, isCatEnd)
	cats := make([]entities.OptionCategory, 0, len(rawCats))
	for i := range rawCats {
		c := &rawCats[i]
		cat := entities.OptionCategory{
			Key:  abi.GoString(c.Key),
			Desc: abi.GoString(c.Desc),
			Info: abi.GoString(c.Info),
		}
		if l, ok := localCats[cat.Key]; ok {
			cat.Desc = pick(abi.GoString(l.Desc), cat.Desc)
			cat.Info = pick(abi.GoString(l.Info), cat.Info)
		}
		cats = append(cats, cat)
	}

	rawDefs := abi.Terminated(us.Definitions, isDefEnd)
	defs := make([]entities.OptionDefinition, 0, len(rawDefs))
	for i := range rawDefs {
		d := &rawDefs[i]
		def := entities.OptionDefinition{
			Key:             abi.GoString(d.Key),
			Desc:            abi.GoString(d.Desc),
			DescCategorized: abi.GoString(d.DescCategorized),
			Info:            abi.GoString(d.Info),
			InfoCategorized: abi.GoString(d.InfoCategorized),
			Category:        abi.GoString(d.CategoryKey),
			Values:          optionValues(&d.Values),
			Default:         abi.GoString(d.DefaultValue),
		}
		if l, ok := localDefs[def.Key]; ok {
			def.Desc = pick(abi.GoString(l.Desc), def.Desc)
			def.DescCategorized = pick(abi.GoString(l.DescCategorized), def.DescCategorized)
			def.Info = pick(abi.GoString(l.Info), def.Info)
			def.InfoCategorized = pick(abi.GoString(l.InfoCategorized), def.InfoCategorized)
			relabel(def.Values, optionValues(&l.Values))
		}
		defs = append(defs, def)
	}
	return defs, cats
}
