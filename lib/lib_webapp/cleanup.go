package lib_webapp

import (
	"context"
	"fmt"

	"github.com/friendsofgo/errors"
	"github.com/schoolyear/webapp-cli/lib"
)

// Cleanup deletes the site (when named) and the resource group that an aborted run left behind.
// Resources that no longer exist are skipped.
func (r *Runner) Cleanup(ctx context.Context, resourceGroup, site string) error {
	if site != "" {
		r.step("Deleting the Site")
		err := r.DeleteSite(ctx, resourceGroup, site)
		switch {
		case lib.IsNotFoundError(err):
			fmt.Fprintf(r.Out, "\tSite %s does not exist\n", site)
		case err != nil:
			return errors.Wrapf(err, "failed to delete site %s", site)
		}
	}

	r.step("Deleting the resource group")
	err := r.DeleteResourceGroup(ctx, resourceGroup)
	switch {
	case lib.IsNotFoundError(err):
		fmt.Fprintf(r.Out, "\tResource group %s does not exist\n", resourceGroup)
	case err != nil:
		return errors.Wrapf(err, "failed to delete resource group %s", resourceGroup)
	}

	return nil
}
