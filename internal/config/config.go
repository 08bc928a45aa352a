// Package config loads the AMF's YAML configuration (spec.md §6).
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration is the AMF's process-wide read-mostly configuration
// snapshot. Values here are never mutated in place; appctx.AppContext
// swaps the whole pointer on commit.
type Configuration struct {
	Info          Info           `yaml:"info"`
	NFInstanceID  string         `yaml:"nf_instance_id"`
	AMFName       string         `yaml:"amf_name"`
	NgapIPList    []string       `yaml:"ngap_ip_list"`
	NgapPort      uint16         `yaml:"ngap_port"`
	ServedGUAMI   []GUAMI        `yaml:"served_guami_list"`
	SupportTAI    []SupportedTAI `yaml:"support_tai_list"`
	PLMNSupport   []PLMNSupport  `yaml:"plmn_support_list"`
	SupportDNN    []string       `yaml:"support_dnn_list"`
	NrfURI        string         `yaml:"nrf_uri"`
	SBI           SBI            `yaml:"sbi"`
	SCTP          SCTP           `yaml:"sctp"`
	Logger        Logger         `yaml:"logger"`
	Runtime       Runtime        `yaml:"runtime"`
	Initialization Initialization `yaml:"initialization"`
}

// Info carries the non-semantic descriptive fields of the config file.
type Info struct {
	Version     string `yaml:"version"`
	Description string `yaml:"description"`
}

// PLMNID is the (MCC, MNC) pair, kept as decimal-digit strings exactly as
// written in YAML ("001" preserves leading zeroes that an int would drop).
type PLMNID struct {
	MCC string `yaml:"mcc"`
	MNC string `yaml:"mnc"`
}

// GUAMI is the Globally Unique AMF Identifier.
type GUAMI struct {
	PLMNID      PLMNID `yaml:"plmn_id"`
	AMFRegionID uint8  `yaml:"amf_region_id"`
	AMFSetID    uint16 `yaml:"amf_set_id"`
	AMFPointer  uint8  `yaml:"amf_pointer"`
}

// SNSSAI is Single Network Slice Selection Assistance Information.
type SNSSAI struct {
	SST uint8  `yaml:"sst"`
	SD  string `yaml:"sd,omitempty"` // 6 lowercase hex chars, empty if absent
}

// SupportedTAI is one entry of support_tai_list: a tracking area plus the
// slices it serves.
type SupportedTAI struct {
	PLMNID PLMNID   `yaml:"plmn_id"`
	TAC    string   `yaml:"tac"` // 6-hex-character string, e.g. "000001"
	SNSSAI []SNSSAI `yaml:"snssai_list"`
}

// PLMNSupport is one entry of plmn_support_list.
type PLMNSupport struct {
	PLMNID PLMNID   `yaml:"plmn_id"`
	SNSSAI []SNSSAI `yaml:"snssai_list"`
}

// SBI holds Service-Based-Interface configuration.
type SBI struct {
	Scheme          string   `yaml:"scheme"`
	RegisterIPv4    string   `yaml:"register_ipv4"`
	BindingIPv4     string   `yaml:"binding_ipv4"`
	Port            int      `yaml:"port"`
	TLS             TLS      `yaml:"tls"`
	ServiceNameList []string `yaml:"service_name_list"`
	OAuthEnabled    bool     `yaml:"oauth_enabled"`
}

// TLS holds the cert/key pair path for the SBI server (currently unused —
// spec.md §1 Non-goals excludes SBI TLS; the fields are parsed so the YAML
// schema round-trips. Validate does not check them or the SBI Scheme).
type TLS struct {
	PEM string `yaml:"pem"`
	Key string `yaml:"key"`
}

// SCTP holds the association-level init parameters (spec.md §6).
type SCTP struct {
	NumOstreams     int           `yaml:"num_ostreams"`
	MaxInstreams    int           `yaml:"max_instreams"`
	MaxAttempts     int           `yaml:"max_attempts"`
	MaxInitTimeout  time.Duration `yaml:"max_init_timeout"`
}

// Logger holds logging configuration.
type Logger struct {
	Enable       bool   `yaml:"enable"`
	Level        string `yaml:"level"`
	ReportCaller bool   `yaml:"report_caller"`
}

// Runtime selects the scheduling model; spec.md §5 assumes a work-stealing
// multi executor but the field is carried through either way.
type Runtime struct {
	Type string `yaml:"type"` // "single" | "multi"
}

// Initialization holds retry/backoff knobs not covered elsewhere.
type Initialization struct {
	Retries int `yaml:"retries"`
}

var validServiceNames = map[string]bool{
	"NamfComm": true,
	"NamfEvts": true,
	"NamfMt":   true,
	"NamfLoc":  true,
}

// Load reads and validates a Configuration from a YAML file at path.
func Load(path string) (*Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Configuration
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks the schema-level invariants listed in spec.md §6.
func (c *Configuration) Validate() error {
	if c.NFInstanceID == "" {
		return fmt.Errorf("nf_instance_id is required")
	}
	if c.AMFName == "" {
		return fmt.Errorf("amf_name is required")
	}
	if len(c.NgapIPList) == 0 {
		return fmt.Errorf("ngap_ip_list must have at least one address")
	}
	for _, ip := range c.NgapIPList {
		if net.ParseIP(ip) == nil {
			return fmt.Errorf("ngap_ip_list entry %q is not a valid IP", ip)
		}
	}
	if c.NgapPort == 0 {
		return fmt.Errorf("ngap_port is required")
	}
	if len(c.ServedGUAMI) == 0 {
		return fmt.Errorf("served_guami_list must have at least one entry")
	}
	if len(c.SupportTAI) == 0 {
		return fmt.Errorf("support_tai_list must have at least one entry")
	}
	if len(c.PLMNSupport) == 0 {
		return fmt.Errorf("plmn_support_list must have at least one entry")
	}
	if len(c.SupportDNN) == 0 {
		return fmt.Errorf("support_dnn_list must have at least one entry")
	}
	if c.NrfURI == "" {
		return fmt.Errorf("nrf_uri is required")
	}
	for _, svc := range c.SBI.ServiceNameList {
		if !validServiceNames[svc] {
			return fmt.Errorf("sbi.service_name_list entry %q is not one of NamfComm/NamfEvts/NamfMt/NamfLoc", svc)
		}
	}
	if c.Runtime.Type != "" && c.Runtime.Type != "single" && c.Runtime.Type != "multi" {
		return fmt.Errorf("runtime.type must be \"single\" or \"multi\"")
	}
	return nil
}
