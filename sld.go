package tiffconvert

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dipsoh/tiffconvert/log"
	"github.com/dipsoh/tiffconvert/utils"

	"go.uber.org/zap"
)

// SLD 1.0 document, trimmed to the raster color-ramp style the geoserver
// layer consumes.
type sldColorMapEntry struct {
	Label    string `xml:"label,attr"`
	Quantity string `xml:"quantity,attr"`
	Color    string `xml:"color,attr"`
}

type sldColorMap struct {
	Type    string             `xml:"type,attr"`
	Entries []sldColorMapEntry `xml:"ColorMapEntry"`
}

type sldGrayChannel struct {
	SourceChannelName string `xml:"SourceChannelName"`
}

type sldChannelSelection struct {
	GrayChannel sldGrayChannel `xml:"GrayChannel"`
}

type sldRasterSymbolizer struct {
	ChannelSelection sldChannelSelection `xml:"ChannelSelection"`
	ColorMap         sldColorMap         `xml:"ColorMap"`
}

type sldRule struct {
	RasterSymbolizer sldRasterSymbolizer `xml:"RasterSymbolizer"`
}

type sldFeatureTypeStyle struct {
	Rule sldRule `xml:"Rule"`
}

type sldUserStyle struct {
	FeatureTypeStyle sldFeatureTypeStyle `xml:"FeatureTypeStyle"`
}

type sldNamedLayer struct {
	Name      string       `xml:"Name"`
	UserStyle sldUserStyle `xml:"UserStyle"`
}

type sldDocument struct {
	XMLName    xml.Name      `xml:"StyledLayerDescriptor"`
	Xmlns      string        `xml:"xmlns,attr"`
	XmlnsXsi   string        `xml:"xmlns:xsi,attr"`
	NamedLayer sldNamedLayer `xml:"NamedLayer"`
}

func buildSLD(layerName string, ramp ColorRamp) sldDocument {
	entries := make([]sldColorMapEntry, len(ramp))
	for i, stop := range ramp {
		entries[i] = sldColorMapEntry{
			Label:    strconv.FormatFloat(utils.Round(stop.Value, 2), 'f', -1, 64),
			Quantity: strconv.FormatFloat(utils.Round(stop.Value, 6), 'f', -1, 64),
			Color:    stop.Color,
		}
	}
	return sldDocument{
		Xmlns:    "http://www.opengis.net/sld",
		XmlnsXsi: "http://www.w3.org/2001/XMLSchema-instance",
		NamedLayer: sldNamedLayer{
			Name: layerName,
			UserStyle: sldUserStyle{
				FeatureTypeStyle: sldFeatureTypeStyle{
					Rule: sldRule{
						RasterSymbolizer: sldRasterSymbolizer{
							ChannelSelection: sldChannelSelection{
								GrayChannel: sldGrayChannel{SourceChannelName: "1"},
							},
							ColorMap: sldColorMap{Type: "ramp", Entries: entries},
						},
					},
				},
			},
		},
	}
}

// exportSLD persists the derived ramp as a geoserver style next to the
// archive raster.
func (c *Converter) exportSLD(ramp ColorRamp, jb *job) (err error) {
	out := filepath.Join(c.cfg.Storage.OutputFolder, jb.id.OutputBase+FILE_EXT_SLD)
	buf, err := xml.Marshal(buildSLD(c.cfg.StyleMDE.LayerName, ramp))
	if err != nil {
		return
	}
	if err = os.WriteFile(out, append([]byte(xml.Header), buf...), 0644); err != nil {
		return
	}
	log.Info(c.logTag+"style document written", zap.String("out", out))
	return
}
