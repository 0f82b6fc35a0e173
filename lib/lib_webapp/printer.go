package lib_webapp

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
)

// PrintResource writes the interesting fields of a resource to w
func PrintResource(w io.Writer, resource Resource) {
	switch r := resource.(type) {
	case ResourceGroup:
		printCommon(w, r.Common)
		printProvisioningState(w, r.ProvisioningState)
	case HostingPlan:
		printCommon(w, r.Common)
		if r.SKU.Name != "" || r.SKU.Tier != "" {
			fmt.Fprintf(w, "\tSku: %s (%s, capacity %d)\n", r.SKU.Name, r.SKU.Tier, r.SKU.Capacity)
		}
		printStatus(w, r.Status)
		printProvisioningState(w, r.ProvisioningState)
	case Site:
		printCommon(w, r.Common)
		printStatus(w, r.State)
	case Provider:
		fmt.Fprintf(w, "\tNamespace: %s\n", r.Namespace)
		fmt.Fprintf(w, "\tRegistration State: %s\n", r.RegistrationState)
	}
	fmt.Fprint(w, "\n\n\n")
}

func printCommon(w io.Writer, c Common) {
	fmt.Fprintf(w, "\tName: %s\n", c.Name)
	fmt.Fprintf(w, "\tId: %s\n", c.ID)
	fmt.Fprintf(w, "\tLocation: %s\n", c.Location)
	fmt.Fprintf(w, "\tTags: %s\n", FormatTags(c.Tags))
}

func printStatus(w io.Writer, status string) {
	if status != "" {
		fmt.Fprintf(w, "\tStatus: %s\n", status)
	}
}

func printProvisioningState(w io.Writer, state string) {
	if state != "" {
		fmt.Fprintln(w, "\tProperties:")
		fmt.Fprintf(w, "\t\tProvisioning State: %s\n", state)
	}
}

// FormatTags renders tags as {key: value, ...} sorted by key, or None
func FormatTags(tags map[string]string) string {
	if len(tags) == 0 {
		return "None"
	}

	pairs := make([]string, 0, len(tags))
	for _, key := range slices.Sorted(maps.Keys(tags)) {
		pairs = append(pairs, key+": "+tags[key])
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}
