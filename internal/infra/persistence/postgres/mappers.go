package postgres

import (
	"gramosi/internal/domain/entity"
	"gramosi/internal/infra/persistence/model"
)

func fromAccountDomain(account *entity.Account) *model.AccountModel {
	return &model.AccountModel{
		ID:                account.ID,
		UserName:          account.UserName,
		Email:             account.Email,
		PasswordHash:      account.PasswordHash,
		IsVerified:        account.IsVerified,
		Bio:               account.Bio,
		ProfilePictureURL: account.ProfilePicture.URL,
		ProfilePictureKey: account.ProfilePicture.Key,
		OTPCode:           account.OTPCode,
		OTPExpiresAt:      account.OTPExpiresAt,
		ResetOTPCode:      account.ResetOTPCode,
		ResetOTPExpiresAt: account.ResetOTPExpiresAt,
		CreatedAt:         account.CreatedAt,
		UpdatedAt:         account.UpdatedAt,
	}
}

func toAccountDomain(accountM *model.AccountModel) *entity.Account {
	account := &entity.Account{
		ID:                accountM.ID,
		UserName:          accountM.UserName,
		Email:             accountM.Email,
		PasswordHash:      accountM.PasswordHash,
		IsVerified:        accountM.IsVerified,
		Bio:               accountM.Bio,
		OTPCode:           accountM.OTPCode,
		OTPExpiresAt:      accountM.OTPExpiresAt,
		ResetOTPCode:      accountM.ResetOTPCode,
		ResetOTPExpiresAt: accountM.ResetOTPExpiresAt,
		CreatedAt:         accountM.CreatedAt,
		UpdatedAt:         accountM.UpdatedAt,
	}

	if accountM.ProfilePictureURL != "" || accountM.ProfilePictureKey != "" {
		account.ProfilePicture = entity.MediaRef{
			URL:  accountM.ProfilePictureURL,
			Key:  accountM.ProfilePictureKey,
			Type: entity.MediaTypeImage,
		}
	}

	return account
}

func toAccountSummary(accountM *model.AccountModel) *entity.AccountSummary {
	if accountM == nil {
		return nil
	}

	return &entity.AccountSummary{
		ID:             accountM.ID,
		UserName:       accountM.UserName,
		ProfilePicture: accountM.ProfilePictureURL,
		Bio:            accountM.Bio,
	}
}

func fromPostDomain(post *entity.Post) *model.PostModel {
	return &model.PostModel{
		ID:                post.ID,
		AuthorID:          post.AuthorID,
		Caption:           post.Caption,
		MediaURL:          post.Media.URL,
		MediaKey:          post.Media.Key,
		MediaType:         string(post.Media.Type),
		MediaThumbnailURL: post.Media.ThumbnailURL,
		CreatedAt:         post.CreatedAt,
	}
}

func toPostDomain(postM *model.PostModel) *entity.Post {
	return &entity.Post{
		ID:       postM.ID,
		AuthorID: postM.AuthorID,
		Caption:  postM.Caption,
		Media: entity.MediaRef{
			URL:          postM.MediaURL,
			Key:          postM.MediaKey,
			Type:         entity.MediaType(postM.MediaType),
			ThumbnailURL: postM.MediaThumbnailURL,
		},
		CreatedAt: postM.CreatedAt,
		Author:    toAccountSummary(postM.Author),
	}
}

func toCommentDomain(commentM *model.CommentModel) *entity.Comment {
	return &entity.Comment{
		ID:        commentM.ID,
		PostID:    commentM.PostID,
		AuthorID:  commentM.AuthorID,
		Text:      commentM.Text,
		CreatedAt: commentM.CreatedAt,
		Author:    toAccountSummary(commentM.Author),
	}
}
