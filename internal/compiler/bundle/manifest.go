// Package bundle implements the Bundle Parser (C5) and Bundle Transpiler
// (C6): parsing a scene manifest into resolved script bindings, and batch-
// transpiling those bindings once source text is available.
package bundle

import (
	"encoding/json"
	"fmt"
)

// Manifest is the on-disk JSON shape of a scene bundle.
type Manifest struct {
	FormatVersion string                    `json:"format_version"`
	SceneName     string                    `json:"scene_name"`
	Region        json.RawMessage           `json:"region,omitempty"`
	Objects       map[string]ManifestObject `json:"objects"`
	Assets        map[string]ManifestAsset  `json:"assets"`
}

// ManifestObject is one object-UUID-keyed entry in Manifest.Objects.
type ManifestObject struct {
	Name      string           `json:"name"`
	Inventory []InventoryEntry `json:"inventory"`
}

// InventoryEntry names one asset an object carries; Kind "script" must
// resolve against Manifest.Assets, other kinds are tolerated dangling.
type InventoryEntry struct {
	Name      string `json:"name"`
	AssetUUID string `json:"asset_uuid"`
	Kind      string `json:"kind"`
}

// ManifestAsset is one asset-UUID-keyed entry in Manifest.Assets.
type ManifestAsset struct {
	Type string `json:"type"`
	Path string `json:"path"`
}

// ParseManifest unmarshals raw manifest JSON. A JSON error is wrapped (%w)
// under "bundle: invalid manifest JSON" so callers such as cmd/tslc can
// distinguish "invalid manifest JSON" from "a script failed to transpile".
func ParseManifest(raw []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("bundle: invalid manifest JSON: %w", err)
	}
	return &m, nil
}

// ValidationError is one field-tagged problem found by Validate.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the manifest's structural invariants: required
// top-level fields, and that every script-inventory entry resolves against
// Manifest.Assets. Dangling references for non-script inventory kinds are
// tolerated and never produce a ValidationError.
func Validate(m *Manifest) []ValidationError {
	var errs []ValidationError

	if m.FormatVersion == "" {
		errs = append(errs, ValidationError{Field: "format_version", Message: "is required"})
	}
	if m.SceneName == "" {
		errs = append(errs, ValidationError{Field: "scene_name", Message: "is required"})
	}
	if m.Objects == nil {
		errs = append(errs, ValidationError{Field: "objects", Message: "is required"})
	}
	if m.Assets == nil {
		errs = append(errs, ValidationError{Field: "assets", Message: "is required"})
	}

	for objectID, obj := range m.Objects {
		for _, inv := range obj.Inventory {
			if inv.Kind != "script" {
				continue
			}
			if _, ok := m.Assets[inv.AssetUUID]; !ok {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("objects[%s].inventory[%s]", objectID, inv.Name),
					Message: fmt.Sprintf("script asset %q not found in assets", inv.AssetUUID),
				})
			}
		}
	}

	return errs
}

// ScriptBinding is one resolved script-inventory entry: an object that
// carries a script, and the asset that script's source lives at.
type ScriptBinding struct {
	ObjectID   string
	ObjectName string
	ScriptName string
	AssetUUID  string
	AssetPath  string
}

// AssetRef is a non-script asset the parsed bundle catalogues for the
// caller (animation/sound inventory, not itself transpiled).
type AssetRef struct {
	ObjectID  string
	AssetUUID string
	Path      string
}

// RegionStats summarizes a parsed bundle for reporting/telemetry.
type RegionStats struct {
	ObjectCount int
	ScriptCount int
	AssetCount  int
}

// ParsedBundle is the Bundle Parser's output: resolved script bindings plus
// catalogues of the other asset kinds and region stats.
type ParsedBundle struct {
	FormatVersion string
	SceneName     string
	Scripts       []ScriptBinding
	Animations    []AssetRef
	Sounds        []AssetRef
	Stats         RegionStats
}

// Parse resolves a Manifest into a ParsedBundle. Only script-inventory
// entries that resolve in Manifest.Assets become ScriptBindings; dangling
// script references are silently dropped (Validate is how a caller learns
// about them — a bundle with one dangling script yields zero bindings from
// Parse and exactly one ValidationError).
func Parse(m *Manifest) *ParsedBundle {
	pb := &ParsedBundle{
		FormatVersion: m.FormatVersion,
		SceneName:     m.SceneName,
		Stats: RegionStats{
			ObjectCount: len(m.Objects),
			AssetCount:  len(m.Assets),
		},
	}

	for objectID, obj := range m.Objects {
		for _, inv := range obj.Inventory {
			asset, ok := m.Assets[inv.AssetUUID]
			if !ok {
				continue
			}
			switch inv.Kind {
			case "script":
				pb.Scripts = append(pb.Scripts, ScriptBinding{
					ObjectID:   objectID,
					ObjectName: obj.Name,
					ScriptName: inv.Name,
					AssetUUID:  inv.AssetUUID,
					AssetPath:  asset.Path,
				})
			case "animation":
				pb.Animations = append(pb.Animations, AssetRef{ObjectID: objectID, AssetUUID: inv.AssetUUID, Path: asset.Path})
			case "sound":
				pb.Sounds = append(pb.Sounds, AssetRef{ObjectID: objectID, AssetUUID: inv.AssetUUID, Path: asset.Path})
			}
		}
	}
	pb.Stats.ScriptCount = len(pb.Scripts)

	return pb
}
