// Package nrf implements the SBI client this AMF uses to register,
// heartbeat, deregister with, and search the NRF (spec.md §4.7).
// Grounded on nf/amf/internal/client/nrf_client.go in the teacher for
// the NF profile shape and Register/Deregister/Heartbeat procedures, and
// on utils/client/src/nrf_client.rs in original_source for the
// search-with-header-params procedure and request-preparation contract
// this client's setHeaders mirrors.
package nrf

import "time"

// NFProfile is the AMF's own profile as registered with the NRF
// (TS 29.510 NFProfile, trimmed to the AMF fields this repo populates).
type NFProfile struct {
	NFInstanceID   string      `json:"nfInstanceId"`
	NFType         string      `json:"nfType"`
	NFStatus       string      `json:"nfStatus"`
	PLMNList       []PLMNID    `json:"plmnList,omitempty"`
	IPv4Addresses  []string    `json:"ipv4Addresses,omitempty"`
	Priority       int         `json:"priority,omitempty"`
	Capacity       int         `json:"capacity,omitempty"`
	AMFInfo        *AMFInfo    `json:"amfInfo,omitempty"`
	NFServices     []NFService `json:"nfServices,omitempty"`
	HeartBeatTimer int         `json:"heartBeatTimer,omitempty"`
	CustomInfo     *CustomInfo `json:"customInfo,omitempty"`
}

// CustomInfo carries the NF-profile extension fields this client reads
// back out of a Register response (spec.md §4.7: "custom_info.oauth2").
type CustomInfo struct {
	OAuth2 bool `json:"oauth2,omitempty"`
}

// NfConfig is the subset of a successful Register response this client
// republishes atomically after each registration (spec.md §3 data model:
// "atomic NfConfig (heartbeat, nfInstanceId, oauth flag)"). A 201 response
// carries a server-assigned NFInstanceID in its Location header; a 200
// response keeps the instance ID this client sent.
type NfConfig struct {
	NFInstanceID   string
	HeartBeatTimer time.Duration
	OAuth2         bool
}

// PLMNID is the PLMN identifier as carried in NF profiles (TS 29.571).
type PLMNID struct {
	MCC string `json:"mcc"`
	MNC string `json:"mnc"`
}

// GUAMI is the Globally Unique AMF Identifier as carried in an NF
// profile's amfInfo.guamiList (TS 29.510 §6.1.6.2.7).
type GUAMI struct {
	PLMNID PLMNID `json:"plmnId"`
	AMFID  string `json:"amfId"`
}

// AMFInfo is the AMF-specific part of an NF profile (TS 29.510 §6.1.6.2.7).
type AMFInfo struct {
	AMFSetID     string   `json:"amfSetId,omitempty"`
	AMFRegionID  string   `json:"amfRegionId,omitempty"`
	GUAMIList    []GUAMI  `json:"guamiList,omitempty"`
	TAIRangeList []string `json:"taiList,omitempty"`
}

// NFService is one entry of an NF profile's nfServices list.
type NFService struct {
	ServiceInstanceID string             `json:"serviceInstanceId"`
	ServiceName       string             `json:"serviceName"`
	Versions          []NFServiceVersion `json:"versions"`
	Scheme            string             `json:"scheme"`
	NFServiceStatus   string             `json:"nfServiceStatus"`
	IPEndPoints       []string           `json:"ipEndPoints,omitempty"`
}

// NFServiceVersion is one supported API version of an NFService.
type NFServiceVersion struct {
	APIVersionInURI string `json:"apiVersionInUri"`
	APIFullVersion  string `json:"apiFullVersion"`
}

// SearchResult is the body of a successful NF discovery search
// (TS 29.510 §6.1.6.2.2, trimmed to what this client reads back).
type SearchResult struct {
	ValidityPeriod int         `json:"validityPeriod,omitempty"`
	NFInstances    []NFProfile `json:"nfInstances"`
}

// RegisterHeaderParams carries the per-request headers the NRF register
// procedure sends alongside the NFProfile body (TS 29.510
// RegisterNFInstanceHeaderParams, trimmed to the fields this AMF sets).
type RegisterHeaderParams struct {
	ContentEncoding string `header:"content_encoding,omitempty"`
}

// SearchHeaderParams carries the per-request headers the NF discovery
// search procedure sends (TS 29.510 SearchNFInstancesHeaderParams).
type SearchHeaderParams struct {
	Authorization string `header:"authorization,omitempty"`
}

// SearchQueryParams is the query-string parameters of an NF discovery
// search (TS 29.510 §6.2.3.2.3.1, trimmed to AMF-relevant filters).
type SearchQueryParams struct {
	TargetNFType   string `query:"target-nf-type"`
	RequesterNFType string `query:"requester-nf-type"`
}

// AccessTokenResponse is the OAuth2 token endpoint's successful response.
type AccessTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// ProblemDetails is the TS 29.500 §5.2.7.2 error body the NRF attaches to
// non-2xx management/discovery responses.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`
	Title    string `json:"title,omitempty"`
	Status   int    `json:"status,omitempty"`
	Detail   string `json:"detail,omitempty"`
	Cause    string `json:"cause,omitempty"`
	Instance string `json:"instance,omitempty"`
}
