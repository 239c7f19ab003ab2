// Package manifest extracts environment declarations for one container
// from a Kubernetes workload manifest.
package manifest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
	appsv1 "k8s.io/api/apps/v1"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/agentstation/envinject/pkg/entry"
	"github.com/agentstation/envinject/pkg/errors"
	"github.com/agentstation/envinject/pkg/logging"
	"github.com/agentstation/envinject/pkg/parser"
)

// Loader returns the environment declarations of the container running
// image in the manifest at path.
type Loader interface {
	Load(ctx context.Context, path, image string) ([]entry.Declaration, error)
}

// LoaderFunc allows functions to implement Loader.
type LoaderFunc func(ctx context.Context, path, image string) ([]entry.Declaration, error)

// Load implements the Loader interface.
func (f LoaderFunc) Load(ctx context.Context, path, image string) ([]entry.Declaration, error) {
	return f(ctx, path, image)
}

// Default is the file based Loader.
var Default Loader = LoaderFunc(Load)

// Load reads the manifest at path and returns the env declarations of the
// container whose image equals image, in manifest order. When several
// containers use the image, the last one wins. A container without env
// yields no declarations.
func Load(ctx context.Context, path, image string) ([]entry.Declaration, error) {
	ctx = logging.WithField(ctx, "manifest", path)
	logger := logging.FromContext(ctx)
	logger.Info().Str("container_image", image).Msg("Reading manifest")

	if err := parser.CheckRegularFile(path); err != nil {
		return nil, errors.NewManifestError(path, "", "cannot read manifest", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewManifestError(path, "", "cannot read manifest", errors.WrapIO("read", path, err))
	}

	specs, err := PodSpecs(data)
	if err != nil {
		return nil, errors.NewManifestError(path, "", "invalid yaml", errors.WrapParse("yaml", path, err))
	}

	container, err := FindContainer(specs, image)
	if err != nil {
		return nil, errors.NewManifestError(path, image, err.Error(), err)
	}

	decls := Declarations(container.Env)
	for _, d := range decls {
		ev := logger.Debug().Str("name", d.Name).Bool("secret", d.Secret)
		if !d.Secret && d.Value != nil {
			ev = ev.Str("value", *d.Value)
		}
		ev.Msg("Manifest declaration")
	}
	logger.Info().Int("declarations", len(decls)).Msg("Loaded manifest")
	return decls, nil
}

// PodSpecs decodes every YAML document in data and returns the pod spec
// of each workload that carries one.
func PodSpecs(data []byte) ([]*corev1.PodSpec, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var specs []*corev1.PodSpec
	for {
		var doc map[string]any
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		if doc == nil {
			continue
		}
		normalizeEnvValues(doc)

		spec, err := podSpec(doc)
		if err != nil {
			return nil, err
		}
		if spec != nil {
			specs = append(specs, spec)
		}
	}
	return specs, nil
}

// podSpec converts a generic document into its typed workload and returns
// the embedded pod spec. Unknown kinds are read as spec.template.spec.
func podSpec(doc map[string]any) (*corev1.PodSpec, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	var meta metav1.TypeMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, err
	}

	switch meta.Kind {
	case "Deployment":
		var w appsv1.Deployment
		return &w.Spec.Template.Spec, unmarshal(raw, &w)
	case "StatefulSet":
		var w appsv1.StatefulSet
		return &w.Spec.Template.Spec, unmarshal(raw, &w)
	case "DaemonSet":
		var w appsv1.DaemonSet
		return &w.Spec.Template.Spec, unmarshal(raw, &w)
	case "ReplicaSet":
		var w appsv1.ReplicaSet
		return &w.Spec.Template.Spec, unmarshal(raw, &w)
	case "Job":
		var w batchv1.Job
		return &w.Spec.Template.Spec, unmarshal(raw, &w)
	case "CronJob":
		var w batchv1.CronJob
		return &w.Spec.JobTemplate.Spec.Template.Spec, unmarshal(raw, &w)
	case "Pod":
		var w corev1.Pod
		return &w.Spec, unmarshal(raw, &w)
	default:
		var w struct {
			Spec struct {
				Template corev1.PodTemplateSpec `json:"template"`
			} `json:"spec"`
		}
		return &w.Spec.Template.Spec, unmarshal(raw, &w)
	}
}

func unmarshal(raw []byte, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decoding workload: %w", err)
	}
	return nil
}

// normalizeEnvValues turns non-string env values such as `value: 5432`
// into strings so they decode into corev1.EnvVar.
func normalizeEnvValues(node any) {
	switch n := node.(type) {
	case map[string]any:
		for k, v := range n {
			if k == "env" {
				if vars, ok := v.([]any); ok {
					for _, item := range vars {
						if ev, ok := item.(map[string]any); ok {
							if val, ok := ev["value"]; ok && val != nil {
								if _, isString := val.(string); !isString {
									ev["value"] = fmt.Sprint(val)
								}
							}
						}
					}
				}
				continue
			}
			normalizeEnvValues(v)
		}
	case []any:
		for _, v := range n {
			normalizeEnvValues(v)
		}
	}
}

// FindContainer returns the last container in specs whose image equals
// image. It fails with ErrContainersMissing when no spec has a containers
// field and with ErrContainerNotFound when no container matches.
func FindContainer(specs []*corev1.PodSpec, image string) (*corev1.Container, error) {
	var (
		found      *corev1.Container
		containers bool
	)
	for _, spec := range specs {
		if spec.Containers == nil {
			continue
		}
		containers = true
		for i := range spec.Containers {
			if spec.Containers[i].Image == image {
				found = &spec.Containers[i]
			}
		}
	}

	switch {
	case !containers:
		return nil, errors.ErrContainersMissing
	case found == nil:
		return nil, errors.ErrContainerNotFound
	}
	return found, nil
}

// Declarations maps container env vars to declarations. A var with value
// yields a plain declaration and a var with valueFrom yields a secret one;
// a var carrying both yields both, plain first. A var with neither is a
// plain declaration with an empty value.
func Declarations(vars []corev1.EnvVar) []entry.Declaration {
	decls := make([]entry.Declaration, 0, len(vars))
	for _, v := range vars {
		if v.Value != "" || v.ValueFrom == nil {
			decls = append(decls, entry.Plain(v.Name, v.Value))
		}
		if v.ValueFrom != nil {
			decls = append(decls, entry.Secret(v.Name))
		}
	}
	return decls
}
