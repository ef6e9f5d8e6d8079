package model

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

const (
	DefaultRDPPort = 3389
	DefaultVNCPort = 5900
)

const secretMask = "********"

// ConnectionInfo — полная запись подключения. Её же несут папки и корень,
// чтобы наследование могло ссылаться на любое поле родителя.
type ConnectionInfo struct {
	Name        string `json:"name" yaml:"name" cbor:"1,keyasint"`
	Description string `json:"description" yaml:"description" cbor:"2,keyasint"`
	Icon        string `json:"icon" yaml:"icon" cbor:"3,keyasint"`
	Panel       string `json:"panel" yaml:"panel" cbor:"4,keyasint"`
	Hostname    string `json:"hostname" yaml:"hostname" cbor:"5,keyasint"`
	Username    string `json:"username" yaml:"username" cbor:"6,keyasint"`
	Password    string `json:"-" yaml:"-" cbor:"7,keyasint"`
	Domain      string `json:"domain" yaml:"domain" cbor:"8,keyasint"`

	Protocol     Protocol `json:"protocol" yaml:"protocol" cbor:"9,keyasint"`
	ExtApp       string   `json:"ext_app" yaml:"ext_app" cbor:"10,keyasint"`
	Port         int      `json:"port" yaml:"port" cbor:"11,keyasint"`
	PuttySession string   `json:"putty_session" yaml:"putty_session" cbor:"12,keyasint"`

	ICAEncryptionStrength   ICAEncryption   `json:"ica_encryption_strength" yaml:"ica_encryption_strength" cbor:"13,keyasint"`
	RDPAuthenticationLevel  AuthLevel       `json:"rdp_authentication_level" yaml:"rdp_authentication_level" cbor:"14,keyasint"`
	RDPMinutesToIdleTimeout int             `json:"rdp_minutes_to_idle_timeout" yaml:"rdp_minutes_to_idle_timeout" cbor:"15,keyasint"`
	RDPAlertIdleTimeout     bool            `json:"rdp_alert_idle_timeout" yaml:"rdp_alert_idle_timeout" cbor:"16,keyasint"`
	LoadBalanceInfo         string          `json:"load_balance_info" yaml:"load_balance_info" cbor:"17,keyasint"`
	RenderingEngine         RenderingEngine `json:"rendering_engine" yaml:"rendering_engine" cbor:"18,keyasint"`
	UseConsoleSession       bool            `json:"use_console_session" yaml:"use_console_session" cbor:"19,keyasint"`
	UseCredSsp              bool            `json:"use_cred_ssp" yaml:"use_cred_ssp" cbor:"20,keyasint"`

	RDGatewayUsageMethod              GatewayUsage       `json:"rd_gateway_usage_method" yaml:"rd_gateway_usage_method" cbor:"21,keyasint"`
	RDGatewayHostname                 string             `json:"rd_gateway_hostname" yaml:"rd_gateway_hostname" cbor:"22,keyasint"`
	RDGatewayUseConnectionCredentials GatewayCredentials `json:"rd_gateway_use_connection_credentials" yaml:"rd_gateway_use_connection_credentials" cbor:"23,keyasint"`
	RDGatewayUsername                 string             `json:"rd_gateway_username" yaml:"rd_gateway_username" cbor:"24,keyasint"`
	RDGatewayPassword                 string             `json:"-" yaml:"-" cbor:"25,keyasint"`
	RDGatewayDomain                   string             `json:"rd_gateway_domain" yaml:"rd_gateway_domain" cbor:"26,keyasint"`

	Resolution               Resolution   `json:"resolution" yaml:"resolution" cbor:"27,keyasint"`
	AutomaticResize          bool         `json:"automatic_resize" yaml:"automatic_resize" cbor:"28,keyasint"`
	Colors                   Colors       `json:"colors" yaml:"colors" cbor:"29,keyasint"`
	CacheBitmaps             bool         `json:"cache_bitmaps" yaml:"cache_bitmaps" cbor:"30,keyasint"`
	DisplayWallpaper         bool         `json:"display_wallpaper" yaml:"display_wallpaper" cbor:"31,keyasint"`
	DisplayThemes            bool         `json:"display_themes" yaml:"display_themes" cbor:"32,keyasint"`
	EnableFontSmoothing      bool         `json:"enable_font_smoothing" yaml:"enable_font_smoothing" cbor:"33,keyasint"`
	EnableDesktopComposition bool         `json:"enable_desktop_composition" yaml:"enable_desktop_composition" cbor:"34,keyasint"`
	RedirectKeys             bool         `json:"redirect_keys" yaml:"redirect_keys" cbor:"35,keyasint"`
	RedirectDiskDrives       bool         `json:"redirect_disk_drives" yaml:"redirect_disk_drives" cbor:"36,keyasint"`
	RedirectPrinters         bool         `json:"redirect_printers" yaml:"redirect_printers" cbor:"37,keyasint"`
	RedirectPorts            bool         `json:"redirect_ports" yaml:"redirect_ports" cbor:"38,keyasint"`
	RedirectSmartCards       bool         `json:"redirect_smart_cards" yaml:"redirect_smart_cards" cbor:"39,keyasint"`
	RedirectSound            Sounds       `json:"redirect_sound" yaml:"redirect_sound" cbor:"40,keyasint"`
	SoundQuality             SoundQuality `json:"sound_quality" yaml:"sound_quality" cbor:"41,keyasint"`

	PreExtApp  string `json:"pre_ext_app" yaml:"pre_ext_app" cbor:"42,keyasint"`
	PostExtApp string `json:"post_ext_app" yaml:"post_ext_app" cbor:"43,keyasint"`
	MacAddress string `json:"mac_address" yaml:"mac_address" cbor:"44,keyasint"`
	UserField  string `json:"user_field" yaml:"user_field" cbor:"45,keyasint"`

	VNCCompression   VNCCompression `json:"vnc_compression" yaml:"vnc_compression" cbor:"46,keyasint"`
	VNCEncoding      VNCEncoding    `json:"vnc_encoding" yaml:"vnc_encoding" cbor:"47,keyasint"`
	VNCAuthMode      VNCAuthMode    `json:"vnc_auth_mode" yaml:"vnc_auth_mode" cbor:"48,keyasint"`
	VNCProxyType     VNCProxyType   `json:"vnc_proxy_type" yaml:"vnc_proxy_type" cbor:"49,keyasint"`
	VNCProxyIP       string         `json:"vnc_proxy_ip" yaml:"vnc_proxy_ip" cbor:"50,keyasint"`
	VNCProxyPort     int            `json:"vnc_proxy_port" yaml:"vnc_proxy_port" cbor:"51,keyasint"`
	VNCProxyUsername string         `json:"vnc_proxy_username" yaml:"vnc_proxy_username" cbor:"52,keyasint"`
	VNCProxyPassword string         `json:"-" yaml:"-" cbor:"53,keyasint"`
	VNCColors        VNCColors      `json:"vnc_colors" yaml:"vnc_colors" cbor:"54,keyasint"`
	VNCSmartSizeMode VNCSmartSize   `json:"vnc_smart_size_mode" yaml:"vnc_smart_size_mode" cbor:"55,keyasint"`
	VNCViewOnly      bool           `json:"vnc_view_only" yaml:"vnc_view_only" cbor:"56,keyasint"`

	PleaseConnect bool `json:"please_connect" yaml:"please_connect" cbor:"57,keyasint"`
}

// NewConnectionInfo returns a record with every field at its default.
func NewConnectionInfo() *ConnectionInfo {
	c := &ConnectionInfo{}
	for _, a := range fields {
		_ = a.set(c, a.def)
	}
	return c
}

// Get возвращает значение поля.
func (c *ConnectionInfo) Get(f Field) any {
	if !f.Valid() {
		return nil
	}
	return fields[f].get(c)
}

// Set присваивает значение поля; тип значения должен совпадать с типом поля.
func (c *ConnectionInfo) Set(f Field, v any) error {
	if !f.Valid() {
		return fmt.Errorf("unknown field %d", int(f))
	}
	return fields[f].set(c, v)
}

// Clone returns a shallow copy; all fields are values.
func (c *ConnectionInfo) Clone() *ConnectionInfo {
	cp := *c
	return &cp
}

// String печатает непустые поля, секреты замаскированы.
func (c *ConnectionInfo) String() string {
	var b strings.Builder
	b.WriteString("{")
	first := true
	for i, a := range fields {
		f := Field(i)
		v := a.get(c)
		if v == a.def && !f.Secret() {
			continue
		}
		if f.Secret() {
			if v == "" {
				continue
			}
			v = secretMask
		}
		if !first {
			b.WriteString(" ")
		}
		first = false
		fmt.Fprintf(&b, "%s=%v", a.name, v)
	}
	b.WriteString("}")
	return b.String()
}

// MarshalLogObject пишет запись в zap без секретов.
func (c *ConnectionInfo) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("name", c.Name)
	enc.AddString("hostname", c.Hostname)
	enc.AddString("protocol", c.Protocol.String())
	enc.AddInt("port", c.Port)
	if c.Username != "" {
		enc.AddString("username", c.Username)
	}
	for _, f := range SecretFields() {
		if c.Get(f).(string) != "" {
			enc.AddString(strings.ToLower(f.String()), secretMask)
		}
	}
	return nil
}
