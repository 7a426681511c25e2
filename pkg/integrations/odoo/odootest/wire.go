package odootest

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/posquery/pkg/integrations"
)

// =============================================================================
// XML-RPC
// =============================================================================

type xmlMethodCall struct {
	XMLName    xml.Name   `xml:"methodCall"`
	MethodName string     `xml:"methodName"`
	Params     []xmlValue `xml:"params>param>value"`
}

type xmlValue struct {
	Int     *string    `xml:"int"`
	I4      *string    `xml:"i4"`
	I8      *string    `xml:"i8"`
	Boolean *string    `xml:"boolean"`
	Double  *string    `xml:"double"`
	String  *string    `xml:"string"`
	Array   *xmlArray  `xml:"array"`
	Struct  *xmlStruct `xml:"struct"`
	Nil     *struct{}  `xml:"nil"`
	Text    string     `xml:",chardata"`
}

type xmlArray struct {
	Values []xmlValue `xml:"data>value"`
}

type xmlStruct struct {
	Members []xmlMember `xml:"member"`
}

type xmlMember struct {
	Name  string   `xml:"name"`
	Value xmlValue `xml:"value"`
}

func (v xmlValue) decode() (any, error) {
	switch {
	case v.Int != nil, v.I4 != nil, v.I8 != nil:
		s := firstOf(v.Int, v.I4, v.I8)
		return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	case v.Boolean != nil:
		return strings.TrimSpace(*v.Boolean) == "1", nil
	case v.Double != nil:
		return strconv.ParseFloat(strings.TrimSpace(*v.Double), 64)
	case v.String != nil:
		return *v.String, nil
	case v.Nil != nil:
		return nil, nil
	case v.Array != nil:
		out := make([]any, 0, len(v.Array.Values))
		for _, item := range v.Array.Values {
			d, err := item.decode()
			if err != nil {
				return nil, err
			}
			out = append(out, d)
		}
		return out, nil
	case v.Struct != nil:
		out := make(map[string]any, len(v.Struct.Members))
		for _, m := range v.Struct.Members {
			d, err := m.Value.decode()
			if err != nil {
				return nil, err
			}
			out[m.Name] = d
		}
		return out, nil
	default:
		return v.Text, nil
	}
}

func firstOf(ptrs ...*string) string {
	for _, p := range ptrs {
		if p != nil {
			return *p
		}
	}
	return ""
}

func (s *Server) handleXMLRPC(w http.ResponseWriter, r *http.Request) {
	service := chi.URLParam(r, "service")

	var call xmlMethodCall
	if err := xml.NewDecoder(r.Body).Decode(&call); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	args := make([]any, 0, len(call.Params))
	for _, p := range call.Params {
		v, err := p.decode()
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		args = append(args, v)
	}
	s.record(Call{Protocol: integrations.ProtocolXMLRPC, Service: service, Method: call.MethodName, Args: args})

	w.Header().Set("Content-Type", "text/xml")
	result, f := s.dispatch(service, call.MethodName, args)

	var b strings.Builder
	b.WriteString(`<?xml version="1.0"?>` + "\n<methodResponse>")
	if f != nil {
		b.WriteString("<fault>")
		writeXMLValue(&b, map[string]any{"faultCode": int64(f.Code), "faultString": f.Message})
		b.WriteString("</fault>")
	} else {
		b.WriteString("<params><param>")
		writeXMLValue(&b, result)
		b.WriteString("</param></params>")
	}
	b.WriteString("</methodResponse>\n")
	io.WriteString(w, b.String())
}

func writeXMLValue(b *strings.Builder, v any) {
	b.WriteString("<value>")
	switch v := v.(type) {
	case nil:
		b.WriteString("<nil/>")
	case bool:
		if v {
			b.WriteString("<boolean>1</boolean>")
		} else {
			b.WriteString("<boolean>0</boolean>")
		}
	case int:
		fmt.Fprintf(b, "<int>%d</int>", v)
	case int64:
		fmt.Fprintf(b, "<int>%d</int>", v)
	case float64:
		fmt.Fprintf(b, "<double>%s</double>", strconv.FormatFloat(v, 'f', -1, 64))
	case string:
		b.WriteString("<string>")
		xml.EscapeText(b, []byte(v))
		b.WriteString("</string>")
	case []any:
		b.WriteString("<array><data>")
		for _, item := range v {
			writeXMLValue(b, item)
		}
		b.WriteString("</data></array>")
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		b.WriteString("<struct>")
		for _, k := range keys {
			b.WriteString("<member><name>")
			xml.EscapeText(b, []byte(k))
			b.WriteString("</name>")
			writeXMLValue(b, v[k])
			b.WriteString("</member>")
		}
		b.WriteString("</struct>")
	default:
		panic(fmt.Sprintf("odootest: cannot encode %T", v))
	}
	b.WriteString("</value>")
}

// =============================================================================
// JSON-RPC
// =============================================================================

type jsonRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	ID      json.RawMessage `json:"id"`
	Params  struct {
		Service string `json:"service"`
		Method  string `json:"method"`
		Args    []any  `json:"args"`
	} `json:"params"`
}

func (s *Server) handleJSONRPC(w http.ResponseWriter, r *http.Request) {
	var req jsonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.JSONRPC != "2.0" || req.Method != "call" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unsupported envelope %q/%q", req.JSONRPC, req.Method))
		return
	}
	p := req.Params
	s.record(Call{Protocol: integrations.ProtocolJSONRPC, Service: p.Service, Method: p.Method, Args: p.Args})

	resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
	result, f := s.dispatch(p.Service, p.Method, p.Args)
	if f != nil {
		resp["error"] = map[string]any{
			"code":    200,
			"message": "Odoo Server Error",
			"data":    map[string]any{"name": "odoo.exceptions.UserError", "message": f.Message, "code": f.Code},
		}
	} else {
		resp["result"] = result
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
