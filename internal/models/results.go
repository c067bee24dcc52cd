package models

// Outputs holds the flattened outputs of a template deployment keyed by
// output name. Values that are not strings are JSON encoded.
type Outputs map[string]string

// ProvisionResult reports a completed provisioning run.
type ProvisionResult struct {
	ResourceGroup  string  `json:"resource_group"`
	DeploymentName string  `json:"deployment_name"`
	Operation      string  `json:"operation"` // CREATE or UPDATE
	Outputs        Outputs `json:"outputs,omitempty"`
}

// DeployResult reports a completed code deployment.
type DeployResult struct {
	FunctionApp string `json:"function_app"`
	PackageBlob string `json:"package_blob"`
	HostName    string `json:"host_name,omitempty"`
}

// AppStatus reports the current state of a provisioned application.
type AppStatus struct {
	FunctionApp        string `json:"function_app"`
	ResourceGroup      string `json:"resource_group"`
	State              string `json:"state"`
	HostName           string `json:"host_name,omitempty"`
	InstrumentationKey string `json:"instrumentation_key,omitempty"`
	ConnectionString   string `json:"connection_string,omitempty"`
	LogWorkspaceID     string `json:"log_workspace_id,omitempty"`
}
