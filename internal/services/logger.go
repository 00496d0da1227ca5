package services

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "services")
