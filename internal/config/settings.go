package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/libretime/libretime-setup/internal/database"
	"gopkg.in/ini.v1"
)

// Database defaults, applied only when the key is missing from the file.
const (
	DefaultDBHost     = "localhost"
	DefaultDBPort     = 5432
	DefaultDBName     = "libretime"
	DefaultDBUser     = "libretime"
	DefaultDBPassword = "libretime"
)

// Settings is the normalized content of the configuration file.
type Settings struct {
	WebServerUser   string
	RabbitMQ        map[string]string
	BaseDir         string
	BaseURL         string
	BasePort        string
	StationID       string
	PhpDir          string
	ForceSSL        bool
	Protocol        string
	DevEnv          string
	Auth            string
	StaticBaseDir   string
	CurrentBackend  string
	CacheAheadHours string
	APIKey          []string
	Database        Database

	// Optional sections: nil when absent from the file.
	Facebook *Facebook
	LDAP     *LDAP
	Demo     *string

	Version string
}

// Database holds the connection parameters of the [database] section.
type Database struct {
	Host     string
	Port     int
	Name     string
	User     string
	Password string
}

// Config converts the section to a connection configuration.
func (d Database) Config() database.Config {
	return database.Config{
		Host:     d.Host,
		Port:     d.Port,
		User:     d.User,
		Password: d.Password,
		DBName:   d.Name,
	}
}

// Facebook holds the [facebook] section.
type Facebook struct {
	AppID     string
	AppURL    string
	AppAPIKey string
}

// LDAP holds the [ldap] section.
type LDAP struct {
	Hostname               string
	BindDN                 string
	Password               string
	AccountDomain          string
	BaseDN                 string
	GroupMapGuest          string
	GroupMapHost           string
	GroupMapProgramManager string
	GroupMapAdmin          string
	GroupMapSuperAdmin     string
	FilterField            string
}

// IsYesValue reports whether v is the boolean true, or a string equal to "yes" or "true"
// regardless of case. Any other value is false.
func IsYesValue(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		s := strings.ToLower(t)
		return s == "yes" || s == "true"
	default:
		return false
	}
}

func newSettings(f *ini.File) (*Settings, error) {
	general, err := requiredSection(f, "general")
	if err != nil {
		return nil, err
	}
	rabbitmq, err := requiredSection(f, "rabbitmq")
	if err != nil {
		return nil, err
	}
	db, err := requiredSection(f, "database")
	if err != nil {
		return nil, err
	}
	backend, err := requiredSection(f, "current_backend")
	if err != nil {
		return nil, err
	}

	s := &Settings{
		WebServerUser:   value(general, "web_server_user"),
		RabbitMQ:        rabbitmq.KeysHash(),
		BaseDir:         value(general, "base_dir"),
		BaseURL:         value(general, "base_url"),
		BasePort:        value(general, "base_port"),
		StationID:       value(general, "station_id"),
		PhpDir:          value(general, "airtime_dir"),
		Protocol:        valueOr(general, "protocol", ""),
		DevEnv:          valueOr(general, "dev_env", "production"),
		Auth:            valueOr(general, "auth", "local"),
		StaticBaseDir:   valueOr(general, "static_base_dir", "/"),
		CurrentBackend:  value(backend, "storage_backend"),
		CacheAheadHours: value(general, "cache_ahead_hours"),
		APIKey:          []string{value(general, "api_key")},
	}

	if v, ok := lookup(general, "force_ssl"); ok {
		s.ForceSSL = IsYesValue(v)
	}

	if s.Database, err = newDatabase(db); err != nil {
		return nil, err
	}

	if sec, err := f.GetSection("facebook"); err == nil && sec.HasKey("facebook_app_id") {
		s.Facebook = &Facebook{
			AppID:     value(sec, "facebook_app_id"),
			AppURL:    value(sec, "facebook_app_url"),
			AppAPIKey: value(sec, "facebook_app_api_key"),
		}
	}

	if sec, err := f.GetSection("ldap"); err == nil {
		s.LDAP = &LDAP{
			Hostname:               value(sec, "hostname"),
			BindDN:                 value(sec, "binddn"),
			Password:               value(sec, "password"),
			AccountDomain:          value(sec, "account_domain"),
			BaseDN:                 value(sec, "basedn"),
			GroupMapGuest:          value(sec, "groupmap_guest"),
			GroupMapHost:           value(sec, "groupmap_host"),
			GroupMapProgramManager: value(sec, "groupmap_program_manager"),
			GroupMapAdmin:          value(sec, "groupmap_admin"),
			GroupMapSuperAdmin:     value(sec, "groupmap_superadmin"),
			FilterField:            value(sec, "filter_field"),
		}
	}

	if sec, err := f.GetSection("demo"); err == nil {
		if v, ok := lookup(sec, "demo"); ok {
			s.Demo = &v
		}
	}

	return s, nil
}

func newDatabase(sec *ini.Section) (Database, error) {
	d := Database{
		Host:     valueOr(sec, "host", DefaultDBHost),
		Port:     DefaultDBPort,
		Name:     valueOr(sec, "name", DefaultDBName),
		User:     valueOr(sec, "user", DefaultDBUser),
		Password: valueOr(sec, "password", DefaultDBPassword),
	}

	// A present but empty port is kept as 0, like any other present but empty key.
	if v, ok := lookup(sec, "port"); ok {
		d.Port = 0
		if v = strings.TrimSpace(v); v != "" {
			p, err := strconv.Atoi(v)
			if err != nil {
				return Database{}, fmt.Errorf("invalid database port %q: %v", v, err)
			}
			d.Port = p
		}
	}

	return d, nil
}

func requiredSection(f *ini.File, name string) (*ini.Section, error) {
	sec, err := f.GetSection(name)
	if err != nil {
		return nil, fmt.Errorf("missing required section [%s]", name)
	}
	return sec, nil
}

// lookup returns the value of key without creating it when it is missing.
func lookup(sec *ini.Section, key string) (string, bool) {
	k, err := sec.GetKey(key)
	if err != nil {
		return "", false
	}
	return k.String(), true
}

func value(sec *ini.Section, key string) string {
	v, _ := lookup(sec, key)
	return v
}

func valueOr(sec *ini.Section, key, def string) string {
	if v, ok := lookup(sec, key); ok {
		return v
	}
	return def
}

// Map returns the Settings as a flat mapping keyed by the names used by the web application.
// Optional sections contribute no key at all when they are absent.
func (s Settings) Map() map[string]any {
	m := map[string]any{
		"webServerUser":     s.WebServerUser,
		"rabbitmq":          s.RabbitMQ,
		"baseDir":           s.BaseDir,
		"baseUrl":           s.BaseURL,
		"basePort":          s.BasePort,
		"stationId":         s.StationID,
		"phpDir":            s.PhpDir,
		"forceSSL":          s.ForceSSL,
		"protocol":          s.Protocol,
		"dev_env":           s.DevEnv,
		"auth":              s.Auth,
		"staticBaseDir":     s.StaticBaseDir,
		"current_backend":   s.CurrentBackend,
		"cache_ahead_hours": s.CacheAheadHours,
		"dsn": map[string]any{
			"phptype":  "pgsql",
			"host":     s.Database.Host,
			"port":     s.Database.Port,
			"database": s.Database.Name,
			"username": s.Database.User,
			"password": s.Database.Password,
		},
		"apiKey":          s.APIKey,
		"airtime_version": s.Version,
	}

	if s.Facebook != nil {
		m["facebook-app-id"] = s.Facebook.AppID
		m["facebook-app-url"] = s.Facebook.AppURL
		m["facebook-app-api-key"] = s.Facebook.AppAPIKey
	}

	if s.LDAP != nil {
		m["ldap_hostname"] = s.LDAP.Hostname
		m["ldap_binddn"] = s.LDAP.BindDN
		m["ldap_password"] = s.LDAP.Password
		m["ldap_account_domain"] = s.LDAP.AccountDomain
		m["ldap_basedn"] = s.LDAP.BaseDN
		m["ldap_groupmap_guest"] = s.LDAP.GroupMapGuest
		m["ldap_groupmap_host"] = s.LDAP.GroupMapHost
		m["ldap_groupmap_program_manager"] = s.LDAP.GroupMapProgramManager
		m["ldap_groupmap_admin"] = s.LDAP.GroupMapAdmin
		m["ldap_groupmap_superadmin"] = s.LDAP.GroupMapSuperAdmin
		m["ldap_filter_field"] = s.LDAP.FilterField
	}

	if s.Demo != nil {
		m["demo"] = *s.Demo
	}

	return m
}
