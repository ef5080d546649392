package huaweiads

// huaweiAdsRequest is the body of POST ppsadx/getResult.
type huaweiAdsRequest struct {
	Version           string     `json:"version"`
	Multislot         []adslot30 `json:"multislot"`
	App               *app       `json:"app,omitempty"`
	Device            device     `json:"device"`
	Network           network    `json:"network"`
	ClientAdRequestId string     `json:"clientAdRequestId,omitempty"`
	Regs              *regs      `json:"regs,omitempty"`
	Geo               *geo       `json:"geo,omitempty"`
	Consent           string     `json:"consent,omitempty"`
}

type adslot30 struct {
	Slotid                   string   `json:"slotid"`
	Adtype                   int32    `json:"adtype"`
	Test                     int32    `json:"test"`
	TotalDuration            int64    `json:"totalDuration,omitempty"`
	W                        int64    `json:"w,omitempty"`
	H                        int64    `json:"h,omitempty"`
	Format                   []format `json:"format,omitempty"`
	DetailedCreativeTypeList []string `json:"detailedCreativeTypeList,omitempty"`
}

type format struct {
	W int64 `json:"w,omitempty"`
	H int64 `json:"h,omitempty"`
}

type app struct {
	Version string `json:"version,omitempty"`
	Name    string `json:"name,omitempty"`
	Pkgname string `json:"pkgname"`
	Lang    string `json:"lang,omitempty"`
	Country string `json:"country,omitempty"`
}

type device struct {
	Type                int32   `json:"type,omitempty"`
	Useragent           string  `json:"useragent,omitempty"`
	Os                  string  `json:"os,omitempty"`
	Version             string  `json:"version,omitempty"`
	Maker               string  `json:"maker,omitempty"`
	Model               string  `json:"model,omitempty"`
	Width               int32   `json:"width,omitempty"`
	Height              int32   `json:"height,omitempty"`
	Language            string  `json:"language,omitempty"`
	Pxratio             float32 `json:"pxratio,omitempty"`
	Imei                string  `json:"imei,omitempty"`
	Oaid                string  `json:"oaid,omitempty"`
	IsTrackingEnabled   string  `json:"isTrackingEnabled,omitempty"`
	LocaleCountry       string  `json:"localeCountry"`
	BelongCountry       string  `json:"belongCountry"`
	GaidTrackingEnabled string  `json:"gaidTrackingEnabled,omitempty"`
	Gaid                string  `json:"gaid,omitempty"`
	ClientTime          string  `json:"clientTime,omitempty"`
	Ip                  string  `json:"ip,omitempty"`
}

type network struct {
	Type     int32      `json:"type"`
	Carrier  int32      `json:"carrier"`
	CellInfo []cellInfo `json:"cellInfo"`
}

type cellInfo struct {
	Mcc string `json:"mcc"`
	Mnc string `json:"mnc"`
}

type regs struct {
	Coppa int32 `json:"coppa"`
}

type geo struct {
	Lon      float64 `json:"lon"`
	Lat      float64 `json:"lat"`
	Accuracy int64   `json:"accuracy"`
	Lastfix  int64   `json:"lastfix"`
}

type huaweiAdsResponse struct {
	Retcode int32  `json:"retcode"`
	Reason  string `json:"reason"`
	Multiad []ad30 `json:"multiad"`
}

type ad30 struct {
	AdType    int32     `json:"adtype"`
	Slotid    string    `json:"slotid"`
	Retcode30 int32     `json:"retcode30"`
	Content   []content `json:"content"`
}

type content struct {
	Contentid       string          `json:"contentid"`
	Interactiontype int32           `json:"interactiontype"`
	Creativetype    int32           `json:"creativetype"`
	MetaData        metaData        `json:"metaData"`
	Monitor         []monitor       `json:"monitor"`
	Paramfromserver paramfromserver `json:"paramfromserver"`
	Cur             string          `json:"cur"`
	Price           float64         `json:"price"`
}

type paramfromserver struct {
	A   string `json:"a"`
	Sig string `json:"sig"`
	T   string `json:"t"`
}

type metaData struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	ImageInfo   []imageInfo `json:"imageInfo"`
	Icon        []icon      `json:"icon"`
	ClickUrl    string      `json:"clickUrl"`
	Intent      string      `json:"intent"`
	VideoInfo   videoInfo   `json:"videoInfo"`
	Duration    int64       `json:"duration"`
	MediaFile   mediaFile   `json:"mediaFile"`
}

type imageInfo struct {
	Url    string `json:"url"`
	Height int64  `json:"height"`
	Width  int64  `json:"width"`
}

type icon struct {
	Url    string `json:"url"`
	Height int64  `json:"height"`
	Width  int64  `json:"width"`
}

type videoInfo struct {
	VideoDownloadUrl string `json:"videoDownloadUrl"`
	VideoDuration    int32  `json:"videoDuration"`
	Width            int32  `json:"width"`
	Height           int32  `json:"height"`
}

type mediaFile struct {
	Mime   string `json:"mime"`
	Width  int64  `json:"width"`
	Height int64  `json:"height"`
	Url    string `json:"url"`
}

type monitor struct {
	EventType string   `json:"eventType"`
	Url       []string `json:"url"`
}
