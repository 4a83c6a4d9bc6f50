package context

import "os"

var lookupEnv = os.LookupEnv

// Selection is the server a trigger command talks to.
type Selection struct {
	Endpoint string

	// Context is empty when the endpoint did not come from a context.
	Context string

	// Output is the context's preferred output format, if any.
	Output string
}

// Resolve picks the server endpoint. The first that applies wins:
//  1. the endpoint flag
//  2. the context flag
//  3. RACCOON_CONTEXT
//  4. current-context in contexts.yaml
//  5. fallback
func (s *Storage) Resolve(endpointFlag, contextFlag, fallback string) (Selection, error) {
	if endpointFlag != "" {
		return Selection{Endpoint: endpointFlag}, nil
	}

	f, err := s.Load()
	if err != nil {
		return Selection{}, err
	}

	name := contextFlag
	if name == "" {
		name, _ = lookupEnv(ContextEnvVar)
	}
	explicit := name != ""
	if !explicit {
		name = f.CurrentContext
	}

	if name != "" {
		if ctx := f.Get(name); ctx != nil {
			return Selection{Endpoint: ctx.Endpoint, Context: ctx.Name, Output: ctx.Output}, nil
		}
		if explicit {
			return Selection{}, &NotFoundError{Name: name}
		}
	}
	return Selection{Endpoint: fallback}, nil
}
