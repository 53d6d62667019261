// Package modrelease tags releases of Go modules living in a shared git
// repository.
//
// Each module is versioned by tags scoped to its directory: a module whose
// go.mod sits at the repository root is tagged "vX.Y.Z", while a module in
// services/api is tagged "services/api/vX.Y.Z". This is the layout the go
// command expects for nested modules.
//
// It provides functionalities for:
//   - Checking that a file is a go.mod and locating the repository root above it.
//   - Refusing to release from a workspace with uncommitted changes.
//   - Finding the highest existing version for a module's tag prefix and
//     bumping it (patch by default, or minor/major).
//   - Creating the tag and pushing the branch and tags to the remote.
//
// Usage Example:
//
//	import (
//	    "context"
//	    "log"
//
//	    modrelease "github.com/bcomnes/modrelease/pkg"
//	)
//
//	func main() {
//	    meta, err := modrelease.Run(context.Background(), modrelease.Config{
//	        ModFile: "services/api/go.mod",
//	    })
//	    if err != nil {
//	        log.Fatalf("release failed: %v", err)
//	    }
//	    log.Printf("released %s", meta.NewTag)
//	}
//
// Git operations go through the Git interface; ExecGit shells out to the git
// binary so the user's credentials and configuration apply to fetch and push.
package modrelease
