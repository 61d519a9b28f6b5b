package vm

import (
	"context"

	"github.com/cybozu-go/log"
)

// Delete removes the bundle of name and its metadata record. It is best
// effort and always succeeds; failures are only logged.
func Delete(ctx context.Context, env *Env, name string) Response[struct{}] {
	path := BundlePath(env, name)
	log.Info("deleting vm", map[string]interface{}{
		"vm":   name,
		"path": path,
	})

	if err := env.Fs.RemoveAll(path); err != nil {
		log.Warn("failed to remove bundle", map[string]interface{}{
			log.FnError: err,
			"path":      path,
		})
	}

	if env.Metadata != nil {
		if err := env.Metadata.Delete(ctx, path); err != nil {
			log.Warn("failed to remove metadata", map[string]interface{}{
				log.FnError: err,
				"path":      path,
			})
		}
	}

	return Success(struct{}{})
}
