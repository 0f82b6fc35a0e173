package lib

import (
	"fmt"
	"io"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/cloud"
	azlog "github.com/Azure/azure-sdk-for-go/sdk/azcore/log"
	"github.com/fatih/color"
	"github.com/friendsofgo/errors"
)

// ARMClientOptions returns client options that send all Azure Resource Manager traffic to endpoint.
// Returns nil (SDK defaults) when endpoint is empty.
func ARMClientOptions(endpoint string) *arm.ClientOptions {
	if endpoint == "" {
		return nil
	}

	return &arm.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Cloud: cloud.Configuration{
				Services: map[cloud.ServiceName]cloud.ServiceConfiguration{
					cloud.ResourceManager: {
						Endpoint: endpoint,
						Audience: "https://management.azure.com/",
					},
				},
			},
			InsecureAllowCredentialWithHTTP: true,
		},
	}
}

// IsNotFoundError checks if the error is an Azure SDK 404 response
func IsNotFoundError(err error) bool {
	var azErr *azcore.ResponseError
	return errors.As(err, &azErr) && azErr.StatusCode == http.StatusNotFound
}

// EnableSDKLogging writes Azure SDK request, response, retry and polling events to w.
// The listener is process wide.
func EnableSDKLogging(w io.Writer) {
	prefix := color.New(color.FgHiBlack)
	azlog.SetEvents(azlog.EventRequest, azlog.EventResponse, azlog.EventRetryPolicy, azlog.EventLRO)
	azlog.SetListener(func(event azlog.Event, msg string) {
		prefix.Fprintf(w, "[%s] ", event)
		fmt.Fprintln(w, msg)
	})
}
