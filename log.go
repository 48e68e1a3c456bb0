package taxiguide

import (
	"github.com/sirupsen/logrus"
)

var (
	log = logrus.WithField("module", "taxiguide")
)
