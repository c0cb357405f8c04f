package types

import "fmt"

// StreamDescriptor uniquely identifies a stream across catalog and state
type StreamDescriptor struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace,omitempty"`
}

func NewStreamDescriptor(namespace, name string) StreamDescriptor {
	return StreamDescriptor{Name: name, Namespace: namespace}
}

// ID returns namespace.name, or just name for streams without a namespace
func (d StreamDescriptor) ID() string {
	if d.Namespace == "" {
		return d.Name
	}
	return fmt.Sprintf("%s.%s", d.Namespace, d.Name)
}

func (d StreamDescriptor) String() string {
	return d.ID()
}

func DescriptorSet(descriptors ...StreamDescriptor) *Set[StreamDescriptor] {
	return NewSet(descriptors...)
}
