package v1

type Status struct {
	Source         string  `json:"source" yaml:"source"`
	Mode           string  `json:"mode" yaml:"mode"`
	Downloaded     int64   `json:"downloaded" yaml:"downloaded"`
	Uploaded       int64   `json:"uploaded" yaml:"uploaded"`
	DownloadRate   float64 `json:"downloadRate" yaml:"downloadRate"`
	UploadRate     float64 `json:"uploadRate" yaml:"uploadRate"`
	Length         int64   `json:"length" yaml:"length"`
	Percentage     float64 `json:"percentage" yaml:"percentage"`
	ETA            string  `json:"eta" yaml:"eta"`
	ConnectedPeers int     `json:"connectedPeers" yaml:"connectedPeers"`
	TotalPeers     int     `json:"totalPeers" yaml:"totalPeers"`
	Elapsed        float64 `json:"elapsed" yaml:"elapsed"`
}
