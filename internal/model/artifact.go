package model

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"
)

// FormatVersion is the artifact layout this build understands.
const FormatVersion = 1

// maxNesting bounds voting ensembles that embed other ensembles.
const maxNesting = 3

//go:embed artifact.schema.json
var artifactSchemaJSON string

var (
	schemaOnce     sync.Once
	schemaCompiled *jsonschema.Schema
	schemaErr      error
)

func artifactSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("artifact.schema.json", strings.NewReader(artifactSchemaJSON)); err != nil {
			schemaErr = err
			return
		}
		schemaCompiled, schemaErr = compiler.Compile("artifact.schema.json")
	})
	return schemaCompiled, schemaErr
}

// Header is the part of an artifact that identifies it without building the
// estimator.
type Header struct {
	Kind     Kind
	Name     string
	Features []string
}

// ReadHeader sniffs kind, name and feature list from raw artifact bytes.
func ReadHeader(raw []byte) (Header, error) {
	if !gjson.ValidBytes(raw) {
		return Header{}, fmt.Errorf("%w: not valid JSON", ErrInvalidArtifact)
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return Header{}, fmt.Errorf("%w: root must be an object", ErrInvalidArtifact)
	}
	h := Header{
		Kind: Kind(strings.TrimSpace(doc.Get("kind").String())),
		Name: strings.TrimSpace(doc.Get("name").String()),
	}
	doc.Get("features").ForEach(func(_, v gjson.Result) bool {
		h.Features = append(h.Features, v.String())
		return true
	})
	if h.Kind == "" {
		return Header{}, fmt.Errorf("%w: missing kind", ErrInvalidArtifact)
	}
	return h, nil
}

// Parse validates raw artifact bytes against the artifact schema and builds
// the predictor they describe.
func Parse(raw []byte) (Predictor, error) {
	h, err := ReadHeader(raw)
	if err != nil {
		return nil, err
	}
	schema, err := artifactSchema()
	if err != nil {
		return nil, fmt.Errorf("compile artifact schema: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %s artifact fails schema: %v", ErrInvalidArtifact, h.Kind, err)
	}
	c, err := build(raw, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidArtifact, h.Kind, err)
	}
	return c, nil
}

type artifactDoc struct {
	FormatVersion int             `json:"format_version"`
	Kind          Kind            `json:"kind"`
	Name          string          `json:"name"`
	Features      []string        `json:"features"`
	Classes       []int           `json:"classes"`
	Scaler        *scalerDoc      `json:"scaler"`
	Params        json.RawMessage `json:"params"`
}

type scalerDoc struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

func build(raw []byte, depth int) (*classifier, error) {
	if depth > maxNesting {
		return nil, fmt.Errorf("ensembles nested deeper than %d", maxNesting)
	}
	var doc artifactDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if doc.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("format_version %d unsupported", doc.FormatVersion)
	}
	if len(doc.Classes) != 2 || doc.Classes[0] == doc.Classes[1] {
		return nil, fmt.Errorf("classes must list two distinct labels")
	}
	width := len(doc.Features)
	if width == 0 {
		return nil, fmt.Errorf("features cannot be empty")
	}
	c := &classifier{
		kind:     doc.Kind,
		name:     doc.Name,
		features: doc.Features,
		classes:  [2]int{doc.Classes[0], doc.Classes[1]},
	}
	if c.name == "" {
		c.name = string(doc.Kind)
	}
	if doc.Scaler != nil {
		s, err := newScaler(*doc.Scaler, width)
		if err != nil {
			return nil, err
		}
		c.scaler = s
	}
	est, err := buildEstimator(doc, depth)
	if err != nil {
		return nil, err
	}
	c.est = est
	return c, nil
}

func buildEstimator(doc artifactDoc, depth int) (estimator, error) {
	width := len(doc.Features)
	classes := [2]int{doc.Classes[0], doc.Classes[1]}
	switch doc.Kind {
	case KindLogisticRegression:
		var p logisticParams
		if err := json.Unmarshal(doc.Params, &p); err != nil {
			return nil, err
		}
		return newLogisticRegression(p, width)
	case KindRandomForest:
		var p forestParams
		if err := json.Unmarshal(doc.Params, &p); err != nil {
			return nil, err
		}
		return newRandomForest(p, width)
	case KindGradientBoosting:
		var p boostingParams
		if err := json.Unmarshal(doc.Params, &p); err != nil {
			return nil, err
		}
		return newGradientBoosting(p, width)
	case KindKNN:
		var p knnParams
		if err := json.Unmarshal(doc.Params, &p); err != nil {
			return nil, err
		}
		return newKNN(p, width, classes)
	case KindSVM:
		var p svmParams
		if err := json.Unmarshal(doc.Params, &p); err != nil {
			return nil, err
		}
		return newSVM(p, width)
	case KindVotingSoft:
		var p votingParams
		if err := json.Unmarshal(doc.Params, &p); err != nil {
			return nil, err
		}
		return newVotingSoft(p, doc.Features, classes, depth)
	default:
		return nil, fmt.Errorf("unsupported kind %q", doc.Kind)
	}
}

func newScaler(doc scalerDoc, width int) (*scaler, error) {
	if len(doc.Mean) != width || len(doc.Scale) != width {
		return nil, fmt.Errorf("scaler expects %d entries (mean=%d scale=%d)", width, len(doc.Mean), len(doc.Scale))
	}
	for i, s := range doc.Scale {
		if s == 0 {
			return nil, fmt.Errorf("scaler scale[%d] is zero", i)
		}
	}
	return &scaler{mean: doc.Mean, scale: doc.Scale}, nil
}
