// Copyright 2025 ByteDance Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package idl reads the few fields of an Anchor IDL the generator needs.
package idl

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

// DefaultProgramID is used when neither the caller nor the descriptor names a
// program. It is the system program address, a valid 32-byte public key.
var DefaultProgramID = solana.SystemProgramID.String()

// Descriptor is the subset of an Anchor IDL document this tool looks at.
// Legacy IDLs (pre Anchor 0.30) keep the address under metadata; newer
// ones have it at the top level.
//
// Fields are read one by one: a field of an unexpected JSON type is left
// empty and never hides the others.
type Descriptor struct {
	Address  string
	Name     string
	Version  string
	Metadata Metadata

	addressErr error
}

type Metadata struct {
	Address string
	Name    string
	Version string
	Spec    string
}

// ProgramName prefers metadata.name over the legacy top-level name.
func (d *Descriptor) ProgramName() string {
	if n := strings.TrimSpace(d.Metadata.Name); n != "" {
		return n
	}
	return strings.TrimSpace(d.Name)
}

// ProgramVersion prefers metadata.version over the legacy top-level version.
func (d *Descriptor) ProgramVersion() string {
	if v := strings.TrimSpace(d.Metadata.Version); v != "" {
		return v
	}
	return strings.TrimSpace(d.Version)
}

// ProgramID returns metadata.address, else address, trimmed; "" if neither is set.
func (d *Descriptor) ProgramID() string {
	if a := strings.TrimSpace(d.Metadata.Address); a != "" {
		return a
	}
	return strings.TrimSpace(d.Address)
}

// Parse decodes a descriptor. Only a document that is not a JSON object is an
// error.
func Parse(data []byte) (*Descriptor, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, errors.Wrap(err, "parse idl")
	}
	d := &Descriptor{
		Name:    stringField(top, "name", nil),
		Version: stringField(top, "version", nil),
	}
	d.Address = stringField(top, "address", &d.addressErr)

	var meta map[string]json.RawMessage
	if raw, ok := top["metadata"]; ok && json.Unmarshal(raw, &meta) == nil {
		d.Metadata = Metadata{
			Address: stringField(meta, "address", &d.addressErr),
			Name:    stringField(meta, "name", nil),
			Version: stringField(meta, "version", nil),
			Spec:    stringField(meta, "spec", nil),
		}
	}
	return d, nil
}

// stringField decodes obj[key] as a string. A value of another type yields ""
// and, when errp is set and still empty, records why.
func stringField(obj map[string]json.RawMessage, key string, errp *error) string {
	raw, ok := obj[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		if errp != nil && *errp == nil {
			*errp = errors.Wrapf(err, "idl field %s", key)
		}
		return ""
	}
	return s
}

// Load reads and decodes the descriptor at path.
func Load(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read idl")
	}
	return Parse(data)
}

// ExtractProgramID looks up the program address in the descriptor at path.
// ok is false when no address is present or the file cannot be read or parsed;
// diag then explains a read, parse or address type problem. diag is advisory and never means the
// caller should stop: a missing address is always recoverable.
func ExtractProgramID(path string) (id string, ok bool, diag error) {
	d, err := Load(path)
	if err != nil {
		return "", false, err
	}
	id = d.ProgramID()
	if id == "" {
		return "", false, d.addressErr
	}
	return id, true, nil
}

// ValidateProgramID reports whether id decodes as a base58 Solana public key.
func ValidateProgramID(id string) error {
	if _, err := solana.PublicKeyFromBase58(id); err != nil {
		return errors.Wrapf(err, "program id %q is not a valid public key", id)
	}
	return nil
}
