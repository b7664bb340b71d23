package v1

type Info struct {
	InfoHash        string                 `json:"infoHash" yaml:"infoHash"`
	Name            string                 `json:"name" yaml:"name"`
	Private         bool                   `json:"private" yaml:"private"`
	CreationDate    int64                  `json:"creationDate" yaml:"creationDate"`
	CreatedBy       string                 `json:"createdBy,omitempty" yaml:"createdBy,omitempty"`
	Comment         string                 `json:"comment,omitempty" yaml:"comment,omitempty"`
	Announce        []string               `json:"announce" yaml:"announce"`
	URLList         []string               `json:"urlList" yaml:"urlList"`
	Files           []File                 `json:"files" yaml:"files"`
	Length          int64                  `json:"length" yaml:"length"`
	PieceLength     int64                  `json:"pieceLength" yaml:"pieceLength"`
	LastPieceLength int64                  `json:"lastPieceLength" yaml:"lastPieceLength"`
	Pieces          []string               `json:"pieces" yaml:"pieces"`
	Raw             map[string]interface{} `json:"info" yaml:"info"`
}

type File struct {
	Name   string `json:"name" yaml:"name"`
	Path   string `json:"path" yaml:"path"`
	Length int64  `json:"length" yaml:"length"`
	Offset int64  `json:"offset" yaml:"offset"`
}
