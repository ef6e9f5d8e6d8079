package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidValue — текст не соответствует ни одному значению перечисления.
var ErrInvalidValue = errors.New("invalid enum value")

type enumValue[T ~int] struct {
	v    T
	name string
}

// enumTable хранит имена и числовые значения одного перечисления.
type enumTable[T ~int] struct {
	kind   string
	values []enumValue[T]
}

func (t enumTable[T]) name(v T) string {
	for _, e := range t.values {
		if e.v == v {
			return e.name
		}
	}
	return fmt.Sprintf("%s(%d)", t.kind, int(v))
}

// parse принимает имя без учёта регистра или число, равное одному из значений.
func (t enumTable[T]) parse(s string) (T, error) {
	s = strings.TrimSpace(s)
	for _, e := range t.values {
		if strings.EqualFold(e.name, s) {
			return e.v, nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil {
		for _, e := range t.values {
			if int(e.v) == n {
				return e.v, nil
			}
		}
	}
	var zero T
	return zero, fmt.Errorf("%w: %s %q", ErrInvalidValue, t.kind, s)
}

func (t enumTable[T]) unmarshal(dst *T, b []byte) error {
	v, err := t.parse(string(b))
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// Protocol — протокол удалённого подключения.
type Protocol int

const (
	ProtocolRDP    Protocol = 0
	ProtocolVNC    Protocol = 1
	ProtocolSSH1   Protocol = 2
	ProtocolSSH2   Protocol = 3
	ProtocolTelnet Protocol = 4
	ProtocolRlogin Protocol = 5
	ProtocolRAW    Protocol = 6
	ProtocolHTTP   Protocol = 7
	ProtocolHTTPS  Protocol = 8
	ProtocolICA    Protocol = 9
	ProtocolIntApp Protocol = 20
)

var protocols = enumTable[Protocol]{kind: "Protocol", values: []enumValue[Protocol]{
	{ProtocolRDP, "RDP"}, {ProtocolVNC, "VNC"}, {ProtocolSSH1, "SSH1"}, {ProtocolSSH2, "SSH2"},
	{ProtocolTelnet, "Telnet"}, {ProtocolRlogin, "Rlogin"}, {ProtocolRAW, "RAW"},
	{ProtocolHTTP, "HTTP"}, {ProtocolHTTPS, "HTTPS"}, {ProtocolICA, "ICA"}, {ProtocolIntApp, "IntApp"},
}}

func ParseProtocol(s string) (Protocol, error) { return protocols.parse(s) }
func (p Protocol) String() string { return protocols.name(p) }
func (p Protocol) MarshalText() ([]byte, error) { return []byte(p.String()), nil }
func (p *Protocol) UnmarshalText(b []byte) error { return protocols.unmarshal(p, b) }

// Colors — глубина цвета RDP.
type Colors int

const (
	Colors256   Colors = 8
	Colors15Bit Colors = 15
	Colors16Bit Colors = 16
	Colors24Bit Colors = 24
	Colors32Bit Colors = 32
)

var colors = enumTable[Colors]{kind: "Colors", values: []enumValue[Colors]{
	{Colors256, "Colors256"}, {Colors15Bit, "Colors15Bit"}, {Colors16Bit, "Colors16Bit"},
	{Colors24Bit, "Colors24Bit"}, {Colors32Bit, "Colors32Bit"},
}}

func ParseColors(s string) (Colors, error) { return colors.parse(s) }
func (c Colors) String() string { return colors.name(c) }
func (c Colors) MarshalText() ([]byte, error) { return []byte(c.String()), nil }
func (c *Colors) UnmarshalText(b []byte) error { return colors.unmarshal(c, b) }

// Resolution — разрешение RDP-сессии.
type Resolution int

const (
	ResolutionFitToWindow Resolution = iota
	ResolutionFullscreen
	ResolutionSmartSize
	Res800x600
	Res1024x768
	Res1152x864
	Res1280x800
	Res1280x1024
	Res1366x768
	Res1440x900
	Res1600x900
	Res1600x1200
	Res1680x1050
	Res1920x1080
	Res1920x1200
	Res2048x1536
	Res2560x1440
	Res2560x1600
	Res2560x2048
	Res3840x2160
)

var resolutions = enumTable[Resolution]{kind: "Resolution", values: []enumValue[Resolution]{
	{ResolutionFitToWindow, "FitToWindow"}, {ResolutionFullscreen, "Fullscreen"}, {ResolutionSmartSize, "SmartSize"},
	{Res800x600, "Res800x600"}, {Res1024x768, "Res1024x768"}, {Res1152x864, "Res1152x864"},
	{Res1280x800, "Res1280x800"}, {Res1280x1024, "Res1280x1024"}, {Res1366x768, "Res1366x768"},
	{Res1440x900, "Res1440x900"}, {Res1600x900, "Res1600x900"}, {Res1600x1200, "Res1600x1200"},
	{Res1680x1050, "Res1680x1050"}, {Res1920x1080, "Res1920x1080"}, {Res1920x1200, "Res1920x1200"},
	{Res2048x1536, "Res2048x1536"}, {Res2560x1440, "Res2560x1440"}, {Res2560x1600, "Res2560x1600"},
	{Res2560x2048, "Res2560x2048"}, {Res3840x2160, "Res3840x2160"},
}}

func ParseResolution(s string) (Resolution, error) { return resolutions.parse(s) }
func (r Resolution) String() string { return resolutions.name(r) }
func (r Resolution) MarshalText() ([]byte, error) { return []byte(r.String()), nil }
func (r *Resolution) UnmarshalText(b []byte) error { return resolutions.unmarshal(r, b) }

// Sounds — перенаправление звука RDP.
type Sounds int

const (
	SoundsBringToThisComputer Sounds = iota
	SoundsLeaveAtRemoteComputer
	SoundsDoNotPlay
)

var sounds = enumTable[Sounds]{kind: "RedirectSound", values: []enumValue[Sounds]{
	{SoundsBringToThisComputer, "BringToThisComputer"},
	{SoundsLeaveAtRemoteComputer, "LeaveAtRemoteComputer"},
	{SoundsDoNotPlay, "DoNotPlay"},
}}

func ParseSounds(s string) (Sounds, error) { return sounds.parse(s) }
func (s Sounds) String() string { return sounds.name(s) }
func (s Sounds) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
func (s *Sounds) UnmarshalText(b []byte) error { return sounds.unmarshal(s, b) }

type SoundQuality int

const (
	SoundQualityDynamic SoundQuality = iota
	SoundQualityMedium
	SoundQualityHigh
)

var soundQualities = enumTable[SoundQuality]{kind: "SoundQuality", values: []enumValue[SoundQuality]{
	{SoundQualityDynamic, "Dynamic"}, {SoundQualityMedium, "Medium"}, {SoundQualityHigh, "High"},
}}

func ParseSoundQuality(s string) (SoundQuality, error) { return soundQualities.parse(s) }
func (q SoundQuality) String() string { return soundQualities.name(q) }
func (q SoundQuality) MarshalText() ([]byte, error) { return []byte(q.String()), nil }
func (q *SoundQuality) UnmarshalText(b []byte) error { return soundQualities.unmarshal(q, b) }

// AuthLevel — уровень проверки подлинности сервера RDP.
type AuthLevel int

const (
	AuthLevelNoAuth AuthLevel = iota
	AuthLevelAuthRequired
	AuthLevelWarnOnFailedAuth
)

var authLevels = enumTable[AuthLevel]{kind: "RDPAuthenticationLevel", values: []enumValue[AuthLevel]{
	{AuthLevelNoAuth, "NoAuth"}, {AuthLevelAuthRequired, "AuthRequired"}, {AuthLevelWarnOnFailedAuth, "WarnOnFailedAuth"},
}}

func ParseAuthLevel(s string) (AuthLevel, error) { return authLevels.parse(s) }
func (a AuthLevel) String() string { return authLevels.name(a) }
func (a AuthLevel) MarshalText() ([]byte, error) { return []byte(a.String()), nil }
func (a *AuthLevel) UnmarshalText(b []byte) error { return authLevels.unmarshal(a, b) }

// GatewayUsage — когда использовать RD Gateway.
type GatewayUsage int

const (
	GatewayNever GatewayUsage = iota
	GatewayAlways
	GatewayDetect
)

var gatewayUsages = enumTable[GatewayUsage]{kind: "RDGatewayUsageMethod", values: []enumValue[GatewayUsage]{
	{GatewayNever, "Never"}, {GatewayAlways, "Always"}, {GatewayDetect, "Detect"},
}}

func ParseGatewayUsage(s string) (GatewayUsage, error) { return gatewayUsages.parse(s) }
func (g GatewayUsage) String() string { return gatewayUsages.name(g) }
func (g GatewayUsage) MarshalText() ([]byte, error) { return []byte(g.String()), nil }
func (g *GatewayUsage) UnmarshalText(b []byte) error { return gatewayUsages.unmarshal(g, b) }

// GatewayCredentials — какие учётные данные передавать шлюзу.
type GatewayCredentials int

const (
	GatewayCredentialsNo GatewayCredentials = iota
	GatewayCredentialsYes
	GatewayCredentialsSmartCard
)

var gatewayCredentials = enumTable[GatewayCredentials]{kind: "RDGatewayUseConnectionCredentials", values: []enumValue[GatewayCredentials]{
	{GatewayCredentialsNo, "No"}, {GatewayCredentialsYes, "Yes"}, {GatewayCredentialsSmartCard, "SmartCard"},
}}

func ParseGatewayCredentials(s string) (GatewayCredentials, error) { return gatewayCredentials.parse(s) }
func (g GatewayCredentials) String() string { return gatewayCredentials.name(g) }
func (g GatewayCredentials) MarshalText() ([]byte, error) { return []byte(g.String()), nil }
func (g *GatewayCredentials) UnmarshalText(b []byte) error { return gatewayCredentials.unmarshal(g, b) }

// ICAEncryption — стойкость шифрования ICA.
type ICAEncryption int

const (
	ICAEncrBasic        ICAEncryption = 1
	ICAEncrRC5LogonOnly ICAEncryption = 2
	ICAEncrRC5_40       ICAEncryption = 40
	ICAEncrRC5_56       ICAEncryption = 56
	ICAEncrRC5_128      ICAEncryption = 128
)

var icaEncryptions = enumTable[ICAEncryption]{kind: "ICAEncryptionStrength", values: []enumValue[ICAEncryption]{
	{ICAEncrBasic, "EncrBasic"}, {ICAEncrRC5LogonOnly, "EncrRC5LogonOnly"},
	{ICAEncrRC5_40, "EncrRC5_40"}, {ICAEncrRC5_56, "EncrRC5_56"}, {ICAEncrRC5_128, "EncrRC5_128"},
}}

func ParseICAEncryption(s string) (ICAEncryption, error) { return icaEncryptions.parse(s) }
func (e ICAEncryption) String() string { return icaEncryptions.name(e) }
func (e ICAEncryption) MarshalText() ([]byte, error) { return []byte(e.String()), nil }
func (e *ICAEncryption) UnmarshalText(b []byte) error { return icaEncryptions.unmarshal(e, b) }

// RenderingEngine — движок HTTP/HTTPS-подключений.
type RenderingEngine int

const (
	RenderingIE    RenderingEngine = 1
	RenderingGecko RenderingEngine = 2
)

var renderingEngines = enumTable[RenderingEngine]{kind: "RenderingEngine", values: []enumValue[RenderingEngine]{
	{RenderingIE, "IE"}, {RenderingGecko, "Gecko"},
}}

func ParseRenderingEngine(s string) (RenderingEngine, error) { return renderingEngines.parse(s) }
func (r RenderingEngine) String() string { return renderingEngines.name(r) }
func (r RenderingEngine) MarshalText() ([]byte, error) { return []byte(r.String()), nil }
func (r *RenderingEngine) UnmarshalText(b []byte) error { return renderingEngines.unmarshal(r, b) }

// VNCCompression — уровень сжатия VNC.
type VNCCompression int

const (
	VNCCompNone VNCCompression = 99
	VNCComp0    VNCCompression = 0
	VNCComp1    VNCCompression = 1
	VNCComp2    VNCCompression = 2
	VNCComp3    VNCCompression = 3
	VNCComp4    VNCCompression = 4
	VNCComp5    VNCCompression = 5
	VNCComp6    VNCCompression = 6
	VNCComp7    VNCCompression = 7
	VNCComp8    VNCCompression = 8
	VNCComp9    VNCCompression = 9
)

var vncCompressions = enumTable[VNCCompression]{kind: "VNCCompression", values: []enumValue[VNCCompression]{
	{VNCCompNone, "CompNone"}, {VNCComp0, "Comp0"}, {VNCComp1, "Comp1"}, {VNCComp2, "Comp2"},
	{VNCComp3, "Comp3"}, {VNCComp4, "Comp4"}, {VNCComp5, "Comp5"}, {VNCComp6, "Comp6"},
	{VNCComp7, "Comp7"}, {VNCComp8, "Comp8"}, {VNCComp9, "Comp9"},
}}

func ParseVNCCompression(s string) (VNCCompression, error) { return vncCompressions.parse(s) }
func (c VNCCompression) String() string { return vncCompressions.name(c) }
func (c VNCCompression) MarshalText() ([]byte, error) { return []byte(c.String()), nil }
func (c *VNCCompression) UnmarshalText(b []byte) error { return vncCompressions.unmarshal(c, b) }

type VNCEncoding int

const (
	VNCEncRaw VNCEncoding = iota
	VNCEncRRE
	VNCEncCorre
	VNCEncHextile
	VNCEncZlib
	VNCEncTight
	VNCEncZLibHex
	VNCEncZRLE
)

var vncEncodings = enumTable[VNCEncoding]{kind: "VNCEncoding", values: []enumValue[VNCEncoding]{
	{VNCEncRaw, "EncRaw"}, {VNCEncRRE, "EncRRE"}, {VNCEncCorre, "EncCorre"}, {VNCEncHextile, "EncHextile"},
	{VNCEncZlib, "EncZlib"}, {VNCEncTight, "EncTight"}, {VNCEncZLibHex, "EncZLibHex"}, {VNCEncZRLE, "EncZRLE"},
}}

func ParseVNCEncoding(s string) (VNCEncoding, error) { return vncEncodings.parse(s) }
func (e VNCEncoding) String() string { return vncEncodings.name(e) }
func (e VNCEncoding) MarshalText() ([]byte, error) { return []byte(e.String()), nil }
func (e *VNCEncoding) UnmarshalText(b []byte) error { return vncEncodings.unmarshal(e, b) }

type VNCAuthMode int

const (
	VNCAuthVNC VNCAuthMode = iota
	VNCAuthWin
)

var vncAuthModes = enumTable[VNCAuthMode]{kind: "VNCAuthMode", values: []enumValue[VNCAuthMode]{
	{VNCAuthVNC, "AuthVNC"}, {VNCAuthWin, "AuthWin"},
}}

func ParseVNCAuthMode(s string) (VNCAuthMode, error) { return vncAuthModes.parse(s) }
func (a VNCAuthMode) String() string { return vncAuthModes.name(a) }
func (a VNCAuthMode) MarshalText() ([]byte, error) { return []byte(a.String()), nil }
func (a *VNCAuthMode) UnmarshalText(b []byte) error { return vncAuthModes.unmarshal(a, b) }

type VNCProxyType int

const (
	VNCProxyNone VNCProxyType = iota
	VNCProxyHTTP
	VNCProxySocks5
	VNCProxyUltra
)

var vncProxyTypes = enumTable[VNCProxyType]{kind: "VNCProxyType", values: []enumValue[VNCProxyType]{
	{VNCProxyNone, "ProxyNone"}, {VNCProxyHTTP, "ProxyHTTP"}, {VNCProxySocks5, "ProxySocks5"}, {VNCProxyUltra, "ProxyUltra"},
}}

func ParseVNCProxyType(s string) (VNCProxyType, error) { return vncProxyTypes.parse(s) }
func (p VNCProxyType) String() string { return vncProxyTypes.name(p) }
func (p VNCProxyType) MarshalText() ([]byte, error) { return []byte(p.String()), nil }
func (p *VNCProxyType) UnmarshalText(b []byte) error { return vncProxyTypes.unmarshal(p, b) }

type VNCColors int

const (
	VNCColNormal VNCColors = iota
	VNCCol8Bit
)

var vncColors = enumTable[VNCColors]{kind: "VNCColors", values: []enumValue[VNCColors]{
	{VNCColNormal, "ColNormal"}, {VNCCol8Bit, "Col8Bit"},
}}

func ParseVNCColors(s string) (VNCColors, error) { return vncColors.parse(s) }
func (c VNCColors) String() string { return vncColors.name(c) }
func (c VNCColors) MarshalText() ([]byte, error) { return []byte(c.String()), nil }
func (c *VNCColors) UnmarshalText(b []byte) error { return vncColors.unmarshal(c, b) }

type VNCSmartSize int

const (
	VNCSmartSNo VNCSmartSize = iota
	VNCSmartSFree
	VNCSmartSAspect
)

var vncSmartSizes = enumTable[VNCSmartSize]{kind: "VNCSmartSizeMode", values: []enumValue[VNCSmartSize]{
	{VNCSmartSNo, "SmartSNo"}, {VNCSmartSFree, "SmartSFree"}, {VNCSmartSAspect, "SmartSAspect"},
}}

func ParseVNCSmartSize(s string) (VNCSmartSize, error) { return vncSmartSizes.parse(s) }
func (s VNCSmartSize) String() string { return vncSmartSizes.name(s) }
func (s VNCSmartSize) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
func (s *VNCSmartSize) UnmarshalText(b []byte) error { return vncSmartSizes.unmarshal(s, b) }
