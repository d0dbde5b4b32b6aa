package paramsink

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	sigsyaml "sigs.k8s.io/yaml"
)

const (
	// ParametersKey is the ConfigMap data key holding the YAML parameters.
	ParametersKey = "parameters.yaml"
	// NamespaceAnnotation records the parameter namespace a ConfigMap was
	// published for, since the object name is a sanitized form of it.
	NamespaceAnnotation = "calman.io/parameter-namespace"

	managedByLabel = "app.kubernetes.io/managed-by"
	managedByValue = "calman"

	defaultTimeout = 10 * time.Second
)

var invalidNameChars = regexp.MustCompile(`[^a-z0-9.-]+`)

// ConfigMapSink publishes every parameter namespace as a ConfigMap so that
// workloads in a cluster can mount the active calibration of a setup.
type ConfigMapSink struct {
	client    client.Client
	namespace string
	timeout   time.Duration
}

// NewConfigMapSink uses c to write ConfigMaps into the Kubernetes namespace
// namespace.
func NewConfigMapSink(c client.Client, namespace string) *ConfigMapSink {
	if namespace == "" {
		namespace = metav1.NamespaceDefault
	}
	return &ConfigMapSink{client: c, namespace: namespace, timeout: defaultTimeout}
}

// NewConfigMapSinkFromEnvironment builds a client from the usual kubeconfig
// discovery (KUBECONFIG, ~/.kube/config or in-cluster).
func NewConfigMapSinkFromEnvironment(namespace string) (*ConfigMapSink, error) {
	cfg, err := ctrl.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load Kubernetes configuration: %w", err)
	}
	scheme := runtime.NewScheme()
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))

	c, err := client.New(cfg, client.Options{Scheme: scheme})
	if err != nil {
		return nil, fmt.Errorf("failed to create Kubernetes client: %w", err)
	}
	return NewConfigMapSink(c, namespace), nil
}

func (s *ConfigMapSink) Available() bool {
	return s != nil && s.client != nil
}

func (s *ConfigMapSink) SetParameters(namespace string, values map[string]any) error {
	body, err := sigsyaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to render parameters for %s: %w", namespace, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	name := ConfigMapName(namespace)
	key := client.ObjectKey{Namespace: s.namespace, Name: name}

	existing := &corev1.ConfigMap{}
	err = s.client.Get(ctx, key, existing)
	switch {
	case apierrors.IsNotFound(err):
		cm := &corev1.ConfigMap{
			ObjectMeta: metav1.ObjectMeta{
				Name:        name,
				Namespace:   s.namespace,
				Labels:      map[string]string{managedByLabel: managedByValue},
				Annotations: map[string]string{NamespaceAnnotation: namespace},
			},
			Data: map[string]string{ParametersKey: string(body)},
		}
		if err := s.client.Create(ctx, cm); err != nil {
			return fmt.Errorf("failed to create ConfigMap %s: %w", key, err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("failed to get ConfigMap %s: %w", key, err)
	}

	if existing.Labels == nil {
		existing.Labels = map[string]string{}
	}
	if existing.Annotations == nil {
		existing.Annotations = map[string]string{}
	}
	existing.Labels[managedByLabel] = managedByValue
	existing.Annotations[NamespaceAnnotation] = namespace
	if existing.Data == nil {
		existing.Data = map[string]string{}
	}
	existing.Data[ParametersKey] = string(body)
	if err := s.client.Update(ctx, existing); err != nil {
		return fmt.Errorf("failed to update ConfigMap %s: %w", key, err)
	}
	return nil
}

// ConfigMapName turns a parameter namespace such as "/Cell_A/arm+wrist" into
// a valid object name ("cell-a-arm-wrist").
func ConfigMapName(namespace string) string {
	name := invalidNameChars.ReplaceAllString(strings.ToLower(namespace), "-")
	name = strings.Trim(name, "-.")
	if name == "" {
		return "calman-parameters"
	}
	if len(name) > 253 {
		name = strings.TrimRight(name[:253], "-.")
	}
	return name
}
