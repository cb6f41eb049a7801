// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import "github.com/go-playground/validator/v10"

// validate checks struct-tagged JSON request bodies. Form field rules
// shared with the client live in the forms package.
var validate = validator.New(validator.WithRequiredStructEnabled())
