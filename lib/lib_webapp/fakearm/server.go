// Package fakearm is an in-memory Azure Resource Manager backend for resource groups,
// App Service plans and sites, used to run the real SDK clients in tests.
package fakearm

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/appservice/armappservice/v4"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
)

// Call names, in the form returned by Server.Calls
const (
	CallRegisterProvider = "POST provider"
	CallPutGroup         = "PUT resourcegroup"
	CallDeleteGroup      = "DELETE resourcegroup"
	CallPutPlan          = "PUT serverfarm"
	CallPutSite          = "PUT site"
	CallListSites        = "LIST site"
	CallGetSite          = "GET site"
	CallDeleteSite       = "DELETE site"
	CallGetPlan          = "GET serverfarm"
	CallPollOperation    = "GET operation"
)

type Server struct {
	*httptest.Server

	// FailCalls makes the named calls fail with a 400 response
	FailCalls map[string]bool
	// HideSitesFromList makes the list call return an empty page
	HideSitesFromList bool
	// LongRunningPolls turns the plan PUT and the group DELETE into long-running operations
	// that report in progress for this many status polls before they finish.
	// The plan PUT uses Azure-AsyncOperation, the group DELETE uses Location.
	LongRunningPolls int

	mu     sync.Mutex
	calls  []string
	groups map[string]armresources.ResourceGroup
	plans  map[string]armappservice.Plan
	sites  map[string]armappservice.Site

	operations    map[string]*operation
	nextOperation int

	// request bodies as received
	PlanRequests []armappservice.Plan
	SiteRequests []armappservice.Site
}

func NewServer() *Server {
	s := &Server{
		FailCalls:  map[string]bool{},
		groups:     map[string]armresources.ResourceGroup{},
		plans:      map[string]armappservice.Plan{},
		sites:      map[string]armappservice.Site{},
		operations: map[string]*operation{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// SetFail toggles an injected failure while the server is running
func (s *Server) SetFail(call string, fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FailCalls[call] = fail
}

// Calls returns the calls received so far, in order
func (s *Server) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.calls)
}

// Plan returns the stored plan with the given name in any resource group
func (s *Server) Plan(name string) (armappservice.Plan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, plan := range s.plans {
		if strings.EqualFold(*plan.Name, name) {
			return plan, true
		}
	}
	return armappservice.Plan{}, false
}

// GroupExists reports whether the resource group is stored
func (s *Server) GroupExists(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.groups {
		if strings.HasSuffix(id, "/resourcegroups/"+strings.ToLower(name)) {
			return true
		}
	}
	return false
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// ARM paths are case insensitive and the SDKs don't agree on casing
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	lower := make([]string, len(parts))
	for i, p := range parts {
		lower[i] = strings.ToLower(p)
	}

	switch {
	case len(lower) == 4 && lower[2] == "operationresults" && r.Method == http.MethodGet:
		s.pollOperation(w, parts[3])
	case len(lower) == 5 && lower[2] == "providers" && lower[4] == "register":
		s.handleRegister(w, r, parts)
	case len(lower) == 4 && lower[2] == "resourcegroups":
		s.handleResourceGroup(w, r, parts)
	case len(lower) >= 7 && lower[2] == "resourcegroups" && lower[4] == "providers" && lower[5] == "microsoft.web":
		s.handleWeb(w, r, parts, lower)
	default:
		writeError(w, http.StatusNotFound, "InvalidResourceType", fmt.Sprintf("no handler for %s %s", r.Method, r.URL.Path))
	}
}

func (s *Server) record(call string, w http.ResponseWriter) (failed bool) {
	s.calls = append(s.calls, call)
	if s.FailCalls[call] {
		writeError(w, http.StatusBadRequest, "BadRequest", "injected failure for "+call)
		return true
	}
	return false
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request, parts []string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "MethodNotAllowed", r.Method)
		return
	}
	if s.record(CallRegisterProvider, w) {
		return
	}

	writeJSON(w, http.StatusOK, armresources.Provider{
		ID:                to.Ptr("/subscriptions/" + parts[1] + "/providers/" + parts[3]),
		Namespace:         to.Ptr(parts[3]),
		RegistrationState: to.Ptr("Registered"),
	})
}

func (s *Server) handleResourceGroup(w http.ResponseWriter, r *http.Request, parts []string) {
	name := parts[3]
	id := strings.ToLower(fmt.Sprintf("/subscriptions/%s/resourcegroups/%s", parts[1], name))

	switch r.Method {
	case http.MethodPut:
		if s.record(CallPutGroup, w) {
			return
		}
		var req armresources.ResourceGroup
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "InvalidRequestContent", err.Error())
			return
		}

		_, exists := s.groups[id]
		group := armresources.ResourceGroup{
			ID:       to.Ptr(fmt.Sprintf("/subscriptions/%s/resourceGroups/%s", parts[1], name)),
			Name:     to.Ptr(name),
			Type:     to.Ptr("Microsoft.Resources/resourceGroups"),
			Location: req.Location,
			Tags:     req.Tags,
			Properties: &armresources.ResourceGroupProperties{
				ProvisioningState: to.Ptr("Succeeded"),
			},
		}
		s.groups[id] = group

		status := http.StatusCreated
		if exists {
			status = http.StatusOK
		}
		writeJSON(w, status, group)
	case http.MethodDelete:
		if s.record(CallDeleteGroup, w) {
			return
		}
		if _, ok := s.groups[id]; !ok {
			writeError(w, http.StatusNotFound, "ResourceGroupNotFound", fmt.Sprintf("Resource group '%s' could not be found.", name))
			return
		}
		if s.LongRunningPolls > 0 {
			opID := s.startOperation(pollLocation, func() { s.deleteGroup(id) })
			w.Header().Set("Location", s.operationURL(parts[1], opID))
			w.Header().Set(retryAfterMsHeader, retryAfterMs)
			w.WriteHeader(http.StatusAccepted)
			return
		}
		s.deleteGroup(id)
		w.WriteHeader(http.StatusOK)
	default:
		writeError(w, http.StatusMethodNotAllowed, "MethodNotAllowed", r.Method)
	}
}

func (s *Server) deleteGroup(id string) {
	delete(s.groups, id)
	for key := range s.plans {
		if strings.HasPrefix(key, id+"/") {
			delete(s.plans, key)
		}
	}
	for key := range s.sites {
		if strings.HasPrefix(key, id+"/") {
			delete(s.sites, key)
		}
	}
}

func (s *Server) handleWeb(w http.ResponseWriter, r *http.Request, parts, lower []string) {
	sub, group := parts[1], parts[3]
	groupID := strings.ToLower(fmt.Sprintf("/subscriptions/%s/resourcegroups/%s", sub, group))
	if _, ok := s.groups[groupID]; !ok {
		writeError(w, http.StatusNotFound, "ResourceGroupNotFound", fmt.Sprintf("Resource group '%s' could not be found.", group))
		return
	}

	switch {
	case lower[6] == "serverfarms" && len(parts) == 8 && r.Method == http.MethodPut:
		s.putPlan(w, r, sub, group, parts[7], groupID)
	case lower[6] == "serverfarms" && len(parts) == 8 && r.Method == http.MethodGet:
		s.getPlan(w, parts[7], groupID)
	case lower[6] == "sites" && len(parts) == 7 && r.Method == http.MethodGet:
		s.listSites(w, groupID)
	case lower[6] == "sites" && len(parts) == 8:
		s.handleSite(w, r, sub, group, parts[7], groupID)
	default:
		writeError(w, http.StatusNotFound, "InvalidResourceType", fmt.Sprintf("no handler for %s %s", r.Method, r.URL.Path))
	}
}

func (s *Server) putPlan(w http.ResponseWriter, r *http.Request, sub, group, name, groupID string) {
	if s.record(CallPutPlan, w) {
		return
	}
	var req armappservice.Plan
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequestContent", err.Error())
		return
	}
	s.PlanRequests = append(s.PlanRequests, req)

	key := groupID + "/serverfarms/" + strings.ToLower(name)
	plan := armappservice.Plan{
		ID:       to.Ptr(fmt.Sprintf("/subscriptions/%s/resourceGroups/%s/providers/Microsoft.Web/serverfarms/%s", sub, group, name)),
		Name:     to.Ptr(name),
		Type:     to.Ptr("Microsoft.Web/serverfarms"),
		Location: req.Location,
		Tags:     req.Tags,
		SKU:      req.SKU,
		Properties: &armappservice.PlanProperties{
			ProvisioningState: to.Ptr(armappservice.ProvisioningStateSucceeded),
			Status:            to.Ptr(armappservice.StatusOptionsReady),
		},
	}
	if s.LongRunningPolls > 0 {
		plan.Properties.ProvisioningState = to.Ptr(armappservice.ProvisioningStateInProgress)
		plan.Properties.Status = to.Ptr(armappservice.StatusOptionsPending)
		s.plans[key] = plan

		opID := s.startOperation(pollAsync, func() {
			p, ok := s.plans[key]
			if !ok {
				return
			}
			p.Properties.ProvisioningState = to.Ptr(armappservice.ProvisioningStateSucceeded)
			p.Properties.Status = to.Ptr(armappservice.StatusOptionsReady)
			s.plans[key] = p
		})
		w.Header().Set("Azure-AsyncOperation", s.operationURL(sub, opID))
		w.Header().Set(retryAfterMsHeader, retryAfterMs)
		writeJSON(w, http.StatusAccepted, plan)
		return
	}
	s.plans[key] = plan

	// a 200 with a terminal provisioning state completes the SDK poller at once
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) getPlan(w http.ResponseWriter, name, groupID string) {
	if s.record(CallGetPlan, w) {
		return
	}
	plan, ok := s.plans[groupID+"/serverfarms/"+strings.ToLower(name)]
	if !ok {
		writeError(w, http.StatusNotFound, "ResourceNotFound", fmt.Sprintf("The Resource 'Microsoft.Web/serverfarms/%s' was not found.", name))
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) listSites(w http.ResponseWriter, groupID string) {
	if s.record(CallListSites, w) {
		return
	}

	sites := []armappservice.Site{}
	if !s.HideSitesFromList {
		keys := make([]string, 0, len(s.sites))
		for key := range s.sites {
			if strings.HasPrefix(key, groupID+"/") {
				keys = append(keys, key)
			}
		}
		slices.Sort(keys)
		for _, key := range keys {
			sites = append(sites, s.sites[key])
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"value": sites})
}

func (s *Server) handleSite(w http.ResponseWriter, r *http.Request, sub, group, name, groupID string) {
	key := groupID + "/sites/" + strings.ToLower(name)

	switch r.Method {
	case http.MethodPut:
		if s.record(CallPutSite, w) {
			return
		}
		var req armappservice.Site
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "InvalidRequestContent", err.Error())
			return
		}
		s.SiteRequests = append(s.SiteRequests, req)

		if req.Location == nil || *req.Location == "" {
			writeError(w, http.StatusBadRequest, "InvalidRequestContent", "The 'location' property is required.")
			return
		}
		var serverFarmID *string
		if req.Properties != nil {
			serverFarmID = req.Properties.ServerFarmID
		}
		if msg := s.checkServerFarm(serverFarmID); msg != "" {
			writeError(w, http.StatusConflict, "Conflict", msg)
			return
		}

		site := armappservice.Site{
			ID:       to.Ptr(fmt.Sprintf("/subscriptions/%s/resourceGroups/%s/providers/Microsoft.Web/sites/%s", sub, group, name)),
			Name:     to.Ptr(name),
			Type:     to.Ptr("Microsoft.Web/sites"),
			Kind:     to.Ptr("app"),
			Location: req.Location,
			Tags:     req.Tags,
			Properties: &armappservice.SiteProperties{
				ServerFarmID:    serverFarmID,
				DefaultHostName: to.Ptr(strings.ToLower(name) + ".azurewebsites.net"),
				State:           to.Ptr("Running"),
			},
		}
		s.sites[key] = site

		writeJSON(w, http.StatusOK, site)
	case http.MethodGet:
		if s.record(CallGetSite, w) {
			return
		}
		site, ok := s.sites[key]
		if !ok {
			writeError(w, http.StatusNotFound, "ResourceNotFound", fmt.Sprintf("The Resource 'Microsoft.Web/sites/%s' was not found.", name))
			return
		}
		writeJSON(w, http.StatusOK, site)
	case http.MethodDelete:
		if s.record(CallDeleteSite, w) {
			return
		}
		if _, ok := s.sites[key]; !ok {
			writeError(w, http.StatusNotFound, "ResourceNotFound", fmt.Sprintf("The Resource 'Microsoft.Web/sites/%s' was not found.", name))
			return
		}
		delete(s.sites, key)
		w.WriteHeader(http.StatusOK)
	default:
		writeError(w, http.StatusMethodNotAllowed, "MethodNotAllowed", r.Method)
	}
}

type pollKind int

const (
	pollLocation pollKind = iota
	pollAsync
)

const (
	retryAfterMsHeader = "Retry-After-Ms"
	retryAfterMs       = "1"
)

type operation struct {
	kind      pollKind
	remaining int
	finish    func()
}

func (s *Server) startOperation(kind pollKind, finish func()) string {
	s.nextOperation++
	id := fmt.Sprintf("op-%d", s.nextOperation)
	s.operations[id] = &operation{
		kind:      kind,
		remaining: s.LongRunningPolls,
		finish:    finish,
	}
	return id
}

func (s *Server) operationURL(sub, id string) string {
	return fmt.Sprintf("%s/subscriptions/%s/operationresults/%s", s.URL, sub, id)
}

// pollOperation answers in progress until the operation runs out of polls, then applies its result
func (s *Server) pollOperation(w http.ResponseWriter, id string) {
	if s.record(CallPollOperation, w) {
		return
	}
	op, ok := s.operations[id]
	if !ok {
		writeError(w, http.StatusNotFound, "OperationNotFound", fmt.Sprintf("Operation '%s' was not found.", id))
		return
	}

	if op.remaining > 0 {
		op.remaining--
		w.Header().Set(retryAfterMsHeader, retryAfterMs)
		if op.kind == pollAsync {
			writeJSON(w, http.StatusOK, map[string]string{"status": "InProgress"})
			return
		}
		w.WriteHeader(http.StatusAccepted)
		return
	}

	if op.finish != nil {
		op.finish()
		op.finish = nil
	}
	if op.kind == pollAsync {
		writeJSON(w, http.StatusOK, map[string]string{"status": "Succeeded"})
		return
	}
	w.WriteHeader(http.StatusOK)
}

// checkServerFarm returns why a site can't be bound to the plan, or "" when it can
func (s *Server) checkServerFarm(serverFarmID *string) string {
	if serverFarmID == nil {
		return ""
	}
	plan, ok := s.plans[planKeyFromID(*serverFarmID)]
	if !ok {
		return fmt.Sprintf("Server farm '%s' was not found.", *serverFarmID)
	}
	if state := plan.Properties.ProvisioningState; state != nil && *state != armappservice.ProvisioningStateSucceeded {
		return fmt.Sprintf("Server farm '%s' is still provisioning.", *serverFarmID)
	}
	return ""
}

// planKeyFromID maps /subscriptions/x/resourceGroups/y/providers/Microsoft.Web/serverfarms/z to the plans key
func planKeyFromID(id string) string {
	parts := strings.Split(strings.Trim(strings.ToLower(id), "/"), "/")
	if len(parts) != 8 {
		return ""
	}
	return fmt.Sprintf("/subscriptions/%s/resourcegroups/%s/serverfarms/%s", parts[1], parts[3], parts[7])
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
