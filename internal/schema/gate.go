package schema

import (
	"fmt"
	"strconv"
	"strings"

	"ConnKeeper/internal/model"
)

// Атрибуты, которые не описываются полями записи.
const (
	AttrID                 = "Id"
	AttrType               = "Type"
	AttrExpanded           = "Expanded"
	AttrVNCPort            = "VNCPort"
	AttrRDPPort            = "RDPPort"
	AttrConfVersion        = "ConfVersion"
	AttrName               = "Name"
	AttrProtected          = "Protected"
	AttrEncryptionEngine   = "EncryptionEngine"
	AttrBlockCipherMode    = "BlockCipherMode"
	AttrKdfIterations      = "KdfIterations"
	AttrFullFileEncryption = "FullFileEncryption"
)

// Пороговые версии, которые нужны за пределами таблицы полей.
var (
	ContainerExpandedSince = V(0, 8)
	ContainerRecordSince   = V(0, 9)
	CipherDeclaredSince    = V(2, 6)
	// Protected проверяется строго после 1.3.
	ProtectedSince = Version(131)
)

type rootAttr struct {
	name  string
	since Version
}

var rootAttrs = []rootAttr{
	{AttrName, 0},
	{AttrProtected, ProtectedSince},
	{AttrEncryptionEngine, CipherDeclaredSince},
	{AttrBlockCipherMode, CipherDeclaredSince},
	{AttrKdfIterations, CipherDeclaredSince},
	{AttrFullFileEncryption, CipherDeclaredSince},
}

// Gate отвечает на вопросы «есть ли атрибут на версии v», «чему равно
// поле по умолчанию» и «как понимать сырой текст».
type Gate struct {
	rules []Rule
}

// NewGate returns a gate over the full field table.
func NewGate() *Gate {
	return &Gate{rules: fieldTable()}
}

// Rules returns the node rules active at v in table order.
func (g *Gate) Rules(v Version) []Rule {
	var out []Rule
	for _, r := range g.rules {
		if r.Active(v) {
			out = append(out, r)
		}
	}
	return out
}

// ContainerRecord — начиная с 0.9 папки несут полную запись подключения.
func (g *Gate) ContainerRecord(v Version) bool { return v >= ContainerRecordSince }

// Present reports whether attr must appear on a node element at v: field
// attributes and the container Expanded flag. Port companions of UseVNC are
// required only conditionally, see Companion.
func (g *Gate) Present(attr string, v Version) bool {
	for _, r := range g.rules {
		if r.Attr == attr && r.Active(v) {
			return true
		}
	}
	return attr == AttrExpanded && v >= ContainerExpandedSince
}

// Companions — атрибуты портов, которые пишутся рядом с UseVNC на версии v.
func Companions(v Version) []string {
	if v >= V(0, 4) && v < V(0, 7) {
		return []string{AttrVNCPort, AttrRDPPort}
	}
	return nil
}

// Companion returns the port attribute a node must carry at v for the given
// UseVNC value; ok is false when the port is not read from the document.
func Companion(useVNC bool, v Version) (attr string, ok bool) {
	if len(Companions(v)) == 0 {
		return "", false
	}
	if useVNC {
		return AttrVNCPort, true
	}
	return AttrRDPPort, true
}

// RootPresent — то же для атрибутов корневого элемента.
func (g *Gate) RootPresent(attr string, v Version) bool {
	for _, a := range rootAttrs {
		if a.name == attr && v >= a.since {
			return true
		}
	}
	return false
}

// RootAttributes returns the attributes the document root carries at v.
func (g *Gate) RootAttributes(v Version) []string {
	var out []string
	for _, a := range rootAttrs {
		if v >= a.since {
			out = append(out, a.name)
		}
	}
	return out
}

// Attributes returns node attribute names every connection must carry at v.
func (g *Gate) Attributes(v Version) []string {
	var out []string
	for _, r := range g.Rules(v) {
		out = append(out, r.Attr)
	}
	return out
}

// Supplies reports whether some rule active at v assigns f.
func (g *Gate) Supplies(f model.Field, v Version) bool {
	for _, r := range g.Rules(v) {
		if r.Inherits {
			continue
		}
		for _, rf := range r.Fields {
			if rf == f {
				return true
			}
		}
	}
	return false
}

// Default — значение поля, когда на версии v его не задаёт ни одно правило.
// Все пороги таблицы вводят поля со значением по умолчанию записи, так что
// от версии оно не зависит.
func (g *Gate) Default(f model.Field, _ Version) any {
	return f.DefaultValue()
}

// Reinterpret разбирает сырой текст атрибута так, как его понимает версия v.
func (g *Gate) Reinterpret(attr, raw string, v Version) (any, error) {
	for _, r := range g.Rules(v) {
		if r.Attr != attr {
			continue
		}
		as, err := r.Decode(raw, noAttrs{}, v)
		if err != nil {
			return nil, err
		}
		if len(as) == 0 {
			return nil, nil
		}
		return as[0].Value, nil
	}
	return nil, fmt.Errorf("attribute %s is not part of schema %s", attr, v)
}

type noAttrs struct{}

func (noAttrs) Lookup(string) (string, bool) { return "", false }

func join(groups ...[]Rule) []Rule {
	var out []Rule
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

var baseInherited = []model.Field{
	model.FieldCacheBitmaps, model.FieldColors, model.FieldDescription, model.FieldDisplayThemes,
	model.FieldDisplayWallpaper, model.FieldIcon, model.FieldPanel, model.FieldPort,
	model.FieldProtocol, model.FieldPuttySession, model.FieldRedirectDiskDrives, model.FieldRedirectKeys,
	model.FieldRedirectPorts, model.FieldRedirectPrinters, model.FieldRedirectSmartCards,
	model.FieldRedirectSound, model.FieldResolution, model.FieldUseConsoleSession,
}

func fieldTable() []Rule {
	var inherits13 []Rule
	for _, f := range baseInherited {
		inherits13 = append(inherits13, inherit(f))
	}
	credentialsUntil := V(2, 7)

	return join(
		at(0,
			colorsRule(),
			soundRule(),
			iconRule(),
			blanketInheritRule().until(V(1, 3)),
		),
		at(V(0, 2),
			text("Name", model.FieldName),
			text("Descr", model.FieldDescription),
			text("Hostname", model.FieldHostname),
			flag("DisplayWallpaper", model.FieldDisplayWallpaper),
			flag("DisplayThemes", model.FieldDisplayThemes),
			flag("CacheBitmaps", model.FieldCacheBitmaps),
			fullscreenRule().until(V(1, 1)),
			text("Username", model.FieldUsername).until(credentialsUntil),
			text("Password", model.FieldPassword).secret().until(credentialsUntil),
			text("Domain", model.FieldDomain).until(credentialsUntil),
		),
		at(V(0, 3), useVNCRule().until(V(0, 7))),
		at(V(0, 4), flag("ConnectToConsole", model.FieldUseConsoleSession)),
		at(V(0, 5),
			flag("RedirectDiskDrives", model.FieldRedirectDiskDrives),
			flag("RedirectPrinters", model.FieldRedirectPrinters),
			flag("RedirectPorts", model.FieldRedirectPorts),
			flag("RedirectSmartCards", model.FieldRedirectSmartCards),
		),
		at(V(0, 7),
			enum("Protocol", model.FieldProtocol, model.ParseProtocol),
			number("Port", model.FieldPort),
		),
		at(V(1, 0), flag("RedirectKeys", model.FieldRedirectKeys)),
		at(V(1, 2), text("PuttySession", model.FieldPuttySession)),
		at(V(1, 3), enum("Resolution", model.FieldResolution, model.ParseResolution)),
		at(V(1, 3), text("Panel", model.FieldPanel)),
		at(V(1, 3), inherits13...),
		at(V(1, 3),
			inherit(model.FieldDomain).until(credentialsUntil),
			inherit(model.FieldPassword).until(credentialsUntil),
			inherit(model.FieldUsername).until(credentialsUntil),
		),
		at(V(1, 5), flag("Connected", model.FieldPleaseConnect)),
		at(V(1, 6), paired(
			enum("ICAEncryptionStrength", model.FieldICAEncryptionStrength, model.ParseICAEncryption),
			text("PreExtApp", model.FieldPreExtApp),
			text("PostExtApp", model.FieldPostExtApp),
		)...),
		at(V(1, 7), paired(
			enum("VNCCompression", model.FieldVNCCompression, model.ParseVNCCompression),
			enum("VNCEncoding", model.FieldVNCEncoding, model.ParseVNCEncoding),
			enum("VNCAuthMode", model.FieldVNCAuthMode, model.ParseVNCAuthMode),
			enum("VNCProxyType", model.FieldVNCProxyType, model.ParseVNCProxyType),
			text("VNCProxyIP", model.FieldVNCProxyIP),
			number("VNCProxyPort", model.FieldVNCProxyPort),
			text("VNCProxyUsername", model.FieldVNCProxyUsername),
			text("VNCProxyPassword", model.FieldVNCProxyPassword).secret(),
			enum("VNCColors", model.FieldVNCColors, model.ParseVNCColors),
			enum("VNCSmartSizeMode", model.FieldVNCSmartSizeMode, model.ParseVNCSmartSize),
			flag("VNCViewOnly", model.FieldVNCViewOnly),
		)...),
		at(V(1, 8), paired(
			enum("RDPAuthenticationLevel", model.FieldRDPAuthenticationLevel, model.ParseAuthLevel),
		)...),
		at(V(1, 9), paired(
			enum("RenderingEngine", model.FieldRenderingEngine, model.ParseRenderingEngine),
			text("MacAddress", model.FieldMacAddress),
		)...),
		at(V(2, 0), paired(text("UserField", model.FieldUserField))...),
		at(V(2, 1), paired(text("ExtApp", model.FieldExtApp))...),
		at(V(2, 2), paired(
			enum("RDGatewayUsageMethod", model.FieldRDGatewayUsageMethod, model.ParseGatewayUsage),
			text("RDGatewayHostname", model.FieldRDGatewayHostname),
			enum("RDGatewayUseConnectionCredentials", model.FieldRDGatewayUseConnectionCredentials, model.ParseGatewayCredentials),
			text("RDGatewayUsername", model.FieldRDGatewayUsername),
			text("RDGatewayPassword", model.FieldRDGatewayPassword).secret(),
			text("RDGatewayDomain", model.FieldRDGatewayDomain),
		)...),
		at(V(2, 3), paired(
			flag("EnableFontSmoothing", model.FieldEnableFontSmoothing),
			flag("EnableDesktopComposition", model.FieldEnableDesktopComposition),
		)...),
		at(V(2, 4), paired(flag("UseCredSsp", model.FieldUseCredSsp))...),
		at(V(2, 5), paired(
			text("LoadBalanceInfo", model.FieldLoadBalanceInfo),
			flag("AutomaticResize", model.FieldAutomaticResize),
		)...),
		at(V(2, 6), paired(
			enum("SoundQuality", model.FieldSoundQuality, model.ParseSoundQuality),
			number("RDPMinutesToIdleTimeout", model.FieldRDPMinutesToIdleTimeout),
			flag("RDPAlertIdleTimeout", model.FieldRDPAlertIdleTimeout),
		)...),
	)
}

// Старые коды глубины цвета (до 1.3).
var legacyColors = map[int]model.Colors{
	0: model.Colors256,
	1: model.Colors16Bit,
	2: model.Colors24Bit,
	3: model.Colors32Bit,
	4: model.Colors15Bit,
}

func legacyColor(code int) model.Colors {
	if c, ok := legacyColors[code]; ok {
		return c
	}
	return model.Colors15Bit
}

// LegacyColorCode returns the pre-1.3 integer code of c.
func LegacyColorCode(c model.Colors) int {
	for code, lc := range legacyColors {
		if lc == c {
			return code
		}
	}
	return 4
}

func colorsRule() Rule {
	return Rule{Attr: "Colors", Fields: []model.Field{model.FieldColors},
		decode: func(raw string, _ Attrs, v Version) ([]Assignment, error) {
			if v < V(1, 3) {
				code, err := ParseInt(raw)
				if err != nil {
					return nil, err
				}
				return set(model.FieldColors, legacyColor(code)), nil
			}
			c, err := model.ParseColors(raw)
			if err == nil {
				return set(model.FieldColors, c), nil
			}
			// файлы, переписанные на 1.3 без пересохранения, несут старый код
			if code, perr := ParseInt(raw); perr == nil {
				if lc, ok := legacyColors[code]; ok {
					return set(model.FieldColors, lc), nil
				}
			}
			return nil, err
		},
		encode: func(n *model.Node, v Version) string {
			if v < V(1, 3) {
				return strconv.Itoa(LegacyColorCode(n.Info.Colors))
			}
			return n.Info.Colors.String()
		},
	}
}

func soundRule() Rule {
	return Rule{Attr: "RedirectSound", Fields: []model.Field{model.FieldRedirectSound},
		decode: func(raw string, _ Attrs, v Version) ([]Assignment, error) {
			if v < V(1, 3) {
				code, err := ParseInt(raw)
				if err != nil {
					return nil, err
				}
				raw = strconv.Itoa(code)
			}
			s, err := model.ParseSounds(raw)
			if err != nil {
				return nil, err
			}
			return set(model.FieldRedirectSound, s), nil
		},
		encode: func(n *model.Node, v Version) string {
			if v < V(1, 3) {
				return strconv.Itoa(int(n.Info.RedirectSound))
			}
			return n.Info.RedirectSound.String()
		},
	}
}

func iconRule() Rule {
	return Rule{Attr: "Icon", Fields: []model.Field{model.FieldIcon},
		decode: func(raw string, _ Attrs, v Version) ([]Assignment, error) {
			if v < V(1, 3) {
				raw = strings.ReplaceAll(raw, ".ico", "")
			}
			return set(model.FieldIcon, raw), nil
		},
		encode: func(n *model.Node, v Version) string {
			if v < V(1, 3) {
				return n.Info.Icon + ".ico"
			}
			return n.Info.Icon
		},
	}
}

// blanketInheritRule — до 1.3 наследование было одним флагом на узел.
func blanketInheritRule() Rule {
	return Rule{Attr: "Inherit", Inherits: true,
		decode: func(raw string, _ Attrs, _ Version) ([]Assignment, error) {
			on, err := ParseBool(raw)
			if err != nil {
				return nil, err
			}
			if !on {
				return nil, nil
			}
			var out []Assignment
			for _, f := range model.Fields() {
				if f.Inheritable() {
					out = append(out, Assignment{Field: f, Value: true, Overlay: true})
				}
			}
			return out, nil
		},
		encode: func(n *model.Node, _ Version) string {
			return formatBool(len(n.Inheritance.Enabled()) > 0)
		},
	}
}

func fullscreenRule() Rule {
	return Rule{Attr: "Fullscreen", Fields: []model.Field{model.FieldResolution},
		decode: func(raw string, _ Attrs, _ Version) ([]Assignment, error) {
			on, err := ParseBool(raw)
			if err != nil {
				return nil, err
			}
			if on {
				return set(model.FieldResolution, model.ResolutionFullscreen), nil
			}
			return set(model.FieldResolution, model.ResolutionFitToWindow), nil
		},
		encode: func(n *model.Node, _ Version) string {
			return formatBool(n.Info.Resolution == model.ResolutionFullscreen)
		},
	}
}

// useVNCRule — до 0.7 протокол задавался флагом UseVNC, а порт брался из
// VNCPort или RDPPort (с 0.4) либо был фиксированным (0.3).
func useVNCRule() Rule {
	return Rule{Attr: "UseVNC", Fields: []model.Field{model.FieldProtocol, model.FieldPort},
		decode: func(raw string, attrs Attrs, v Version) ([]Assignment, error) {
			vnc, err := ParseBool(raw)
			if err != nil {
				return nil, err
			}
			proto, port := model.ProtocolRDP, model.DefaultRDPPort
			if vnc {
				proto, port = model.ProtocolVNC, model.DefaultVNCPort
			}
			if companion, ok := Companion(vnc, v); ok {
				s, ok := attrs.Lookup(companion)
				if !ok {
					return nil, &AttrError{Attr: companion, Err: ErrMissingAttribute}
				}
				if port, err = ParseInt(s); err != nil {
					return nil, &AttrError{Attr: companion, Err: err}
				}
			}
			return []Assignment{
				{Field: model.FieldProtocol, Value: proto},
				{Field: model.FieldPort, Value: port},
			}, nil
		},
		encode: func(n *model.Node, _ Version) string {
			return formatBool(n.Info.Protocol == model.ProtocolVNC)
		},
	}
}
