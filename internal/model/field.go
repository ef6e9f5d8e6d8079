package model

import (
	"fmt"
	"strings"
)

// Field — одно типизированное поле записи подключения.
type Field int

const (
	FieldName Field = iota
	FieldDescription
	FieldIcon
	FieldPanel
	FieldHostname
	FieldUsername
	FieldPassword
	FieldDomain
	FieldProtocol
	FieldExtApp
	FieldPort
	FieldPuttySession
	FieldICAEncryptionStrength
	FieldRDPAuthenticationLevel
	FieldRDPMinutesToIdleTimeout
	FieldRDPAlertIdleTimeout
	FieldLoadBalanceInfo
	FieldRenderingEngine
	FieldUseConsoleSession
	FieldUseCredSsp
	FieldRDGatewayUsageMethod
	FieldRDGatewayHostname
	FieldRDGatewayUseConnectionCredentials
	FieldRDGatewayUsername
	FieldRDGatewayPassword
	FieldRDGatewayDomain
	FieldResolution
	FieldAutomaticResize
	FieldColors
	FieldCacheBitmaps
	FieldDisplayWallpaper
	FieldDisplayThemes
	FieldEnableFontSmoothing
	FieldEnableDesktopComposition
	FieldRedirectKeys
	FieldRedirectDiskDrives
	FieldRedirectPrinters
	FieldRedirectPorts
	FieldRedirectSmartCards
	FieldRedirectSound
	FieldSoundQuality
	FieldPreExtApp
	FieldPostExtApp
	FieldMacAddress
	FieldUserField
	FieldVNCCompression
	FieldVNCEncoding
	FieldVNCAuthMode
	FieldVNCProxyType
	FieldVNCProxyIP
	FieldVNCProxyPort
	FieldVNCProxyUsername
	FieldVNCProxyPassword
	FieldVNCColors
	FieldVNCSmartSizeMode
	FieldVNCViewOnly
	FieldPleaseConnect

	fieldCount
)

type accessor struct {
	name string
	def  any
	get  func(*ConnectionInfo) any
	set  func(*ConnectionInfo, any) error
}

// bind связывает поле структуры с его именем и значением по умолчанию.
func bind[T any](name string, def T, ptr func(*ConnectionInfo) *T) accessor {
	return accessor{
		name: name,
		def:  def,
		get:  func(c *ConnectionInfo) any { return *ptr(c) },
		set: func(c *ConnectionInfo, v any) error {
			t, ok := v.(T)
			if !ok {
				return fmt.Errorf("field %s: want %T, got %T", name, def, v)
			}
			*ptr(c) = t
			return nil
		},
	}
}

var fields = [fieldCount]accessor{
	FieldName:                              bind("Name", "", func(c *ConnectionInfo) *string { return &c.Name }),
	FieldDescription:                       bind("Description", "", func(c *ConnectionInfo) *string { return &c.Description }),
	FieldIcon:                              bind("Icon", "mRemoteNG", func(c *ConnectionInfo) *string { return &c.Icon }),
	FieldPanel:                             bind("Panel", "General", func(c *ConnectionInfo) *string { return &c.Panel }),
	FieldHostname:                          bind("Hostname", "", func(c *ConnectionInfo) *string { return &c.Hostname }),
	FieldUsername:                          bind("Username", "", func(c *ConnectionInfo) *string { return &c.Username }),
	FieldPassword:                          bind("Password", "", func(c *ConnectionInfo) *string { return &c.Password }),
	FieldDomain:                            bind("Domain", "", func(c *ConnectionInfo) *string { return &c.Domain }),
	FieldProtocol:                          bind("Protocol", ProtocolRDP, func(c *ConnectionInfo) *Protocol { return &c.Protocol }),
	FieldExtApp:                            bind("ExtApp", "", func(c *ConnectionInfo) *string { return &c.ExtApp }),
	FieldPort:                              bind("Port", DefaultRDPPort, func(c *ConnectionInfo) *int { return &c.Port }),
	FieldPuttySession:                      bind("PuttySession", "Default Settings", func(c *ConnectionInfo) *string { return &c.PuttySession }),
	FieldICAEncryptionStrength:             bind("ICAEncryptionStrength", ICAEncrBasic, func(c *ConnectionInfo) *ICAEncryption { return &c.ICAEncryptionStrength }),
	FieldRDPAuthenticationLevel:            bind("RDPAuthenticationLevel", AuthLevelNoAuth, func(c *ConnectionInfo) *AuthLevel { return &c.RDPAuthenticationLevel }),
	FieldRDPMinutesToIdleTimeout:           bind("RDPMinutesToIdleTimeout", 0, func(c *ConnectionInfo) *int { return &c.RDPMinutesToIdleTimeout }),
	FieldRDPAlertIdleTimeout:               bind("RDPAlertIdleTimeout", false, func(c *ConnectionInfo) *bool { return &c.RDPAlertIdleTimeout }),
	FieldLoadBalanceInfo:                   bind("LoadBalanceInfo", "", func(c *ConnectionInfo) *string { return &c.LoadBalanceInfo }),
	FieldRenderingEngine:                   bind("RenderingEngine", RenderingIE, func(c *ConnectionInfo) *RenderingEngine { return &c.RenderingEngine }),
	FieldUseConsoleSession:                 bind("UseConsoleSession", false, func(c *ConnectionInfo) *bool { return &c.UseConsoleSession }),
	FieldUseCredSsp:                        bind("UseCredSsp", true, func(c *ConnectionInfo) *bool { return &c.UseCredSsp }),
	FieldRDGatewayUsageMethod:              bind("RDGatewayUsageMethod", GatewayNever, func(c *ConnectionInfo) *GatewayUsage { return &c.RDGatewayUsageMethod }),
	FieldRDGatewayHostname:                 bind("RDGatewayHostname", "", func(c *ConnectionInfo) *string { return &c.RDGatewayHostname }),
	FieldRDGatewayUseConnectionCredentials: bind("RDGatewayUseConnectionCredentials", GatewayCredentialsYes, func(c *ConnectionInfo) *GatewayCredentials { return &c.RDGatewayUseConnectionCredentials }),
	FieldRDGatewayUsername:                 bind("RDGatewayUsername", "", func(c *ConnectionInfo) *string { return &c.RDGatewayUsername }),
	FieldRDGatewayPassword:                 bind("RDGatewayPassword", "", func(c *ConnectionInfo) *string { return &c.RDGatewayPassword }),
	FieldRDGatewayDomain:                   bind("RDGatewayDomain", "", func(c *ConnectionInfo) *string { return &c.RDGatewayDomain }),
	FieldResolution:                        bind("Resolution", ResolutionFitToWindow, func(c *ConnectionInfo) *Resolution { return &c.Resolution }),
	FieldAutomaticResize:                   bind("AutomaticResize", true, func(c *ConnectionInfo) *bool { return &c.AutomaticResize }),
	FieldColors:                            bind("Colors", Colors16Bit, func(c *ConnectionInfo) *Colors { return &c.Colors }),
	FieldCacheBitmaps:                      bind("CacheBitmaps", false, func(c *ConnectionInfo) *bool { return &c.CacheBitmaps }),
	FieldDisplayWallpaper:                  bind("DisplayWallpaper", false, func(c *ConnectionInfo) *bool { return &c.DisplayWallpaper }),
	FieldDisplayThemes:                     bind("DisplayThemes", false, func(c *ConnectionInfo) *bool { return &c.DisplayThemes }),
	FieldEnableFontSmoothing:               bind("EnableFontSmoothing", false, func(c *ConnectionInfo) *bool { return &c.EnableFontSmoothing }),
	FieldEnableDesktopComposition:          bind("EnableDesktopComposition", false, func(c *ConnectionInfo) *bool { return &c.EnableDesktopComposition }),
	FieldRedirectKeys:                      bind("RedirectKeys", false, func(c *ConnectionInfo) *bool { return &c.RedirectKeys }),
	FieldRedirectDiskDrives:                bind("RedirectDiskDrives", false, func(c *ConnectionInfo) *bool { return &c.RedirectDiskDrives }),
	FieldRedirectPrinters:                  bind("RedirectPrinters", false, func(c *ConnectionInfo) *bool { return &c.RedirectPrinters }),
	FieldRedirectPorts:                     bind("RedirectPorts", false, func(c *ConnectionInfo) *bool { return &c.RedirectPorts }),
	FieldRedirectSmartCards:                bind("RedirectSmartCards", false, func(c *ConnectionInfo) *bool { return &c.RedirectSmartCards }),
	FieldRedirectSound:                     bind("RedirectSound", SoundsDoNotPlay, func(c *ConnectionInfo) *Sounds { return &c.RedirectSound }),
	FieldSoundQuality:                      bind("SoundQuality", SoundQualityDynamic, func(c *ConnectionInfo) *SoundQuality { return &c.SoundQuality }),
	FieldPreExtApp:                         bind("PreExtApp", "", func(c *ConnectionInfo) *string { return &c.PreExtApp }),
	FieldPostExtApp:                        bind("PostExtApp", "", func(c *ConnectionInfo) *string { return &c.PostExtApp }),
	FieldMacAddress:                        bind("MacAddress", "", func(c *ConnectionInfo) *string { return &c.MacAddress }),
	FieldUserField:                         bind("UserField", "", func(c *ConnectionInfo) *string { return &c.UserField }),
	FieldVNCCompression:                    bind("VNCCompression", VNCCompNone, func(c *ConnectionInfo) *VNCCompression { return &c.VNCCompression }),
	FieldVNCEncoding:                       bind("VNCEncoding", VNCEncHextile, func(c *ConnectionInfo) *VNCEncoding { return &c.VNCEncoding }),
	FieldVNCAuthMode:                       bind("VNCAuthMode", VNCAuthVNC, func(c *ConnectionInfo) *VNCAuthMode { return &c.VNCAuthMode }),
	FieldVNCProxyType:                      bind("VNCProxyType", VNCProxyNone, func(c *ConnectionInfo) *VNCProxyType { return &c.VNCProxyType }),
	FieldVNCProxyIP:                        bind("VNCProxyIP", "", func(c *ConnectionInfo) *string { return &c.VNCProxyIP }),
	FieldVNCProxyPort:                      bind("VNCProxyPort", 0, func(c *ConnectionInfo) *int { return &c.VNCProxyPort }),
	FieldVNCProxyUsername:                  bind("VNCProxyUsername", "", func(c *ConnectionInfo) *string { return &c.VNCProxyUsername }),
	FieldVNCProxyPassword:                  bind("VNCProxyPassword", "", func(c *ConnectionInfo) *string { return &c.VNCProxyPassword }),
	FieldVNCColors:                         bind("VNCColors", VNCColNormal, func(c *ConnectionInfo) *VNCColors { return &c.VNCColors }),
	FieldVNCSmartSizeMode:                  bind("VNCSmartSizeMode", VNCSmartSAspect, func(c *ConnectionInfo) *VNCSmartSize { return &c.VNCSmartSizeMode }),
	FieldVNCViewOnly:                       bind("VNCViewOnly", false, func(c *ConnectionInfo) *bool { return &c.VNCViewOnly }),
	FieldPleaseConnect:                     bind("PleaseConnect", false, func(c *ConnectionInfo) *bool { return &c.PleaseConnect }),
}

// Fields returns every field in declaration order.
func Fields() []Field {
	out := make([]Field, fieldCount)
	for i := range out {
		out[i] = Field(i)
	}
	return out
}

func (f Field) Valid() bool { return f >= 0 && f < fieldCount }

func (f Field) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fields[f].name
}

// Secret сообщает, что поле хранится в файле зашифрованным и не выводится в логи.
func (f Field) Secret() bool {
	switch f {
	case FieldPassword, FieldRDGatewayPassword, FieldVNCProxyPassword:
		return true
	}
	return false
}

// SecretFields returns the fields stored encrypted in a document.
func SecretFields() []Field {
	return []Field{FieldPassword, FieldRDGatewayPassword, FieldVNCProxyPassword}
}

// Inheritable — поле может наследоваться от родителя.
func (f Field) Inheritable() bool {
	switch f {
	case FieldName, FieldHostname, FieldPleaseConnect:
		return false
	}
	return f.Valid()
}

// DefaultValue — значение поля у свежесозданной записи.
func (f Field) DefaultValue() any {
	if !f.Valid() {
		return nil
	}
	return fields[f].def
}

// ParseField находит поле по имени без учёта регистра.
func ParseField(s string) (Field, error) {
	s = strings.TrimSpace(s)
	for i, a := range fields {
		if strings.EqualFold(a.name, s) {
			return Field(i), nil
		}
	}
	return 0, fmt.Errorf("unknown field %q", s)
}
