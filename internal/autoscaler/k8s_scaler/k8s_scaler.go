/*
 * MIT License
 *
 * Copyright (c) 2024 EASL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package k8s_scaler

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/retry"
)

// KubernetesScaler exposes the Deployments of one namespace as scalable resources.
type KubernetesScaler struct {
	client        kubernetes.Interface
	namespace     string
	labelSelector string
	timeout       time.Duration
}

func NewKubernetesScaler(client kubernetes.Interface, namespace string, labelSelector string, timeout time.Duration) *KubernetesScaler {
	return &KubernetesScaler{
		client:        client,
		namespace:     namespace,
		labelSelector: labelSelector,
		timeout:       timeout,
	}
}

// NewClientset prefers the in-cluster configuration and falls back to a kubeconfig file.
func NewClientset(kubeconfig string) (kubernetes.Interface, error) {
	restConfig, err := rest.InClusterConfig()
	if err == nil {
		logrus.Info("Loaded in-cluster Kubernetes config")
	} else {
		if kubeconfig == "" {
			kubeconfig = clientcmd.RecommendedHomeFile
		}

		restConfig, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
		if err != nil {
			return nil, fmt.Errorf("loading Kubernetes config: %w", err)
		}

		logrus.Infof("Loaded local Kubernetes config from %s", kubeconfig)
	}

	return kubernetes.NewForConfig(restConfig)
}

func (s *KubernetesScaler) ListResources(ctx context.Context) ([]string, error) {
	listContext, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	deployments, err := s.client.AppsV1().Deployments(s.namespace).List(listContext, metav1.ListOptions{
		LabelSelector: s.labelSelector,
	})
	if err != nil {
		return nil, fmt.Errorf("listing deployments in %s: %w", s.namespace, err)
	}

	names := make([]string, 0, len(deployments.Items))
	for _, deployment := range deployments.Items {
		names = append(names, deployment.Name)
	}
	sort.Strings(names)

	return names, nil
}

func (s *KubernetesScaler) GetReplicaCount(ctx context.Context, name string) (int, error) {
	getContext, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	deployment, err := s.client.AppsV1().Deployments(s.namespace).Get(getContext, name, metav1.GetOptions{})
	if err != nil {
		return 0, fmt.Errorf("reading deployment %s/%s: %w", s.namespace, name, err)
	}

	// unset replicas default to one on the API server
	if deployment.Spec.Replicas == nil {
		return 1, nil
	}

	return int(*deployment.Spec.Replicas), nil
}

func (s *KubernetesScaler) SetReplicaCount(ctx context.Context, name string, count int) error {
	updateContext, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	replicas := int32(count)

	err := retry.RetryOnConflict(retry.DefaultRetry, func() error {
		deployment, err := s.client.AppsV1().Deployments(s.namespace).Get(updateContext, name, metav1.GetOptions{})
		if err != nil {
			return err
		}

		deployment.Spec.Replicas = &replicas

		_, err = s.client.AppsV1().Deployments(s.namespace).Update(updateContext, deployment, metav1.UpdateOptions{})
		return err
	})
	if err != nil {
		return fmt.Errorf("scaling deployment %s/%s to %d: %w", s.namespace, name, count, err)
	}

	logrus.Infof("Scaled %s to %d replicas", name, count)

	return nil
}

func (s *KubernetesScaler) Probe(ctx context.Context) error {
	_, err := s.ListResources(ctx)
	return err
}
