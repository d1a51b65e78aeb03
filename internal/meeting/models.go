package meeting

// Info describes the meeting shown on the landing page.
type Info struct {
	LogoURL  string `json:"logo_url" yaml:"logo_url"`
	TitleTH  string `json:"title_th" yaml:"title_th"`
	TitleEN  string `json:"title_en" yaml:"title_en"`
	RemarkTH string `json:"remark_th" yaml:"remark_th"`
	RemarkEN string `json:"remark_en" yaml:"remark_en"`
}

// Link is one debenture series and the request form that belongs to it.
type Link struct {
	Code  string `json:"code" yaml:"code"`
	Label string `json:"label" yaml:"label"`
	URL   string `json:"url" yaml:"url"`
}

// file is the YAML layout of MEETING_CONFIG.
type file struct {
	Info       Info `yaml:"info"`
	Debentures struct {
		DefaultURL string `yaml:"default_url"`
		Forms      []Link `yaml:"forms"`
	} `yaml:"debentures"`
}
